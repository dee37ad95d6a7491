// Command reservactl is a small terminal client for the reservation API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		serverURL string
		token     string
	)

	root := &cobra.Command{
		Use:           "reservactl",
		Short:         "Cliente de linha de comando para a API de reservas de salas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "endereço base da API")
	root.PersistentFlags().StringVar(&token, "token", "", "token de sessão (padrão: variável RESERVACTL_TOKEN)")

	client := func() *apiClient {
		resolved := token
		if resolved == "" {
			resolved = os.Getenv("RESERVACTL_TOKEN")
		}
		return newAPIClient(serverURL, resolved)
	}

	root.AddCommand(newLoginCommand(client))
	root.AddCommand(newRoomsCommand(client))
	root.AddCommand(newAvailabilityCommand(client))
	return root
}

func defaultServerURL() string {
	if url := os.Getenv("RESERVACTL_SERVER"); url != "" {
		return url
	}
	return "http://localhost:8080"
}
