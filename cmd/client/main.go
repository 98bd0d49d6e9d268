package main

import (
	"log"
	"os"

	"github.com/KDT2006/termdice/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverAddr string
	playerName string
)

var rootCmd = &cobra.Command{
	Use:   "termdice",
	Short: "join a dice game",
	Run: func(cmd *cobra.Command, args []string) {
		client := client.New(serverAddr, playerName)
		if err := client.Connect(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&serverAddr, "addr", "localhost:4000", "server address")
	rootCmd.Flags().StringVar(&playerName, "name", "", "display name")
	rootCmd.MarkFlagRequired("name")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
