package plans

import (
	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/request"
)

type PlanSchemaCmd struct{}

func (c *PlanSchemaCmd) Run(ctx *cli.Context) error {
	schema, err := request.Schema()
	if err != nil {
		return err
	}
	ctx.Println(string(schema))
	return nil
}
