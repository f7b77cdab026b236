package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile  string
	AWSProfile  string
	Regions     []string
	ReportName  string
	ReportType  []string
	Dir         string
	S3Bucket    string
	S3Prefix    string
	Write       bool
	CommandName string
}
