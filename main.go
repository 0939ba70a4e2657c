package main

import (
	"github.com/spf13/cobra"

	"github.com/addislaw/counsel/cli"
	"github.com/addislaw/counsel/cli/chat"
	"github.com/addislaw/counsel/internal/configuration"
)

const configFilepath = "~/.config/counsel/config.json"

var rootCmd = &cobra.Command{
	Use:   "counsel",
	Short: "A CLI for Ethiopian legal consultations",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(chat.NewCmd(config))
	rootCmd.AddCommand(cli.NewLoginCmd(config))
	rootCmd.AddCommand(cli.NewRegisterCmd(config))
	rootCmd.AddCommand(cli.NewLogoutCmd(config))
	rootCmd.AddCommand(cli.NewSessionsCmd(config))
	rootCmd.Execute()
}
