package staff

import (
	"fmt"
	"text/tabwriter"

	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/models"
)

type ClientCmd struct {
	Add  ClientAddCmd  `cmd:"" help:"Add a client."`
	List ClientListCmd `cmd:"" help:"List clients."`
}

type ClientAddCmd struct {
	Name string `arg:"" help:"Client name."`
}

func (c *ClientAddCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Store.AddClient(models.Client{Name: c.Name})
	if err != nil {
		return err
	}
	ctx.Printf("Added client %s (%s)\n", client.Name, client.ID)
	return nil
}

type ClientListCmd struct{}

func (c *ClientListCmd) Run(ctx *cli.Context) error {
	clients, err := ctx.Store.GetAllClients()
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		ctx.Println("No clients yet. Add one with 'traffic client add <name>'.")
		return nil
	}
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID")
	for _, cl := range clients {
		fmt.Fprintf(w, "%s\t%s\n", cl.Name, cl.ID)
	}
	return w.Flush()
}
