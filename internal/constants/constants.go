package constants

const (
	AppName            = "traffic"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/traffic"
	DefaultDBPath      = "~/.config/traffic/traffic.db"
	ConfigFileName     = "config.toml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "traffic-"
	BackupFileSuffix = ".db"

	// Commit lock
	CommitLockfileName = "traffic-commit.lock"

	// Leave statuses
	LeaveStatusApproved = "approved"
	LeaveStatusPending  = "pending"
	LeaveStatusRejected = "rejected"

	// Fallback discipline tag when no classifier rule matches
	DisciplineGeneral = "general"
)
