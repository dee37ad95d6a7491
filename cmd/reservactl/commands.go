package main

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCommand(client func() *apiClient) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Autentica na API e imprime o token de sessão",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return fmt.Errorf("informe o e-mail com --email")
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			result, err := client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sessão criada para %s (%s), expira em %s\n",
				result.User.DisplayName, result.User.Role, result.ExpiresAt)
			fmt.Fprintf(cmd.OutOrStdout(), "export RESERVACTL_TOKEN=%s\n", result.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "e-mail da conta")
	return cmd
}

// readPassword prompts on the terminal without echo, falling back to a plain
// line read when stdin is a pipe.
func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newRoomsCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "Lista as salas do catálogo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rooms, err := client().ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			printRooms(cmd, rooms)
			return nil
		},
	}
}

func newAvailabilityCommand(client func() *apiClient) *cobra.Command {
	var (
		date          string
		start         string
		end           string
		people        int
		description   string
		project       string
		recurring     bool
		frequency     string
		recurrenceEnd string
		projector     bool
		internet      bool
		airConditions bool
	)

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Consulta as salas disponíveis para uma janela",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := url.Values{}
			setIfPresent := func(key, value string) {
				if value != "" {
					query.Set(key, value)
				}
			}
			setIfPresent("date", date)
			setIfPresent("start_time", start)
			setIfPresent("end_time", end)
			setIfPresent("description", description)
			setIfPresent("project_id", project)
			setIfPresent("recurrence_type", frequency)
			setIfPresent("recurrence_end_date", recurrenceEnd)
			if people > 0 {
				query.Set("people_count", strconv.Itoa(people))
			}
			if recurring {
				query.Set("is_recurring", "true")
			}
			if projector {
				query.Set("projector", "true")
			}
			if internet {
				query.Set("internet", "true")
			}
			if airConditions {
				query.Set("air_conditioning", "true")
			}

			rooms, err := client().Availability(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma sala disponível para a janela informada.")
				return nil
			}
			printRooms(cmd, rooms)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "data da reserva (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "horário inicial (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "horário final (HH:MM)")
	cmd.Flags().IntVar(&people, "people", 0, "quantidade de pessoas")
	cmd.Flags().StringVar(&description, "description", "", "finalidade da reserva")
	cmd.Flags().StringVar(&project, "project", "", "identificador do projeto")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "reserva recorrente")
	cmd.Flags().StringVar(&frequency, "frequency", "", "frequência da recorrência (daily, weekly, biweekly, monthly)")
	cmd.Flags().StringVar(&recurrenceEnd, "recurrence-end", "", "data final da recorrência (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&projector, "projector", false, "exigir projetor")
	cmd.Flags().BoolVar(&internet, "internet", false, "exigir internet")
	cmd.Flags().BoolVar(&airConditions, "air-conditioning", false, "exigir ar-condicionado")
	return cmd
}

func printRooms(cmd *cobra.Command, rooms []roomResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tCAPACIDADE\tATIVA\tFIXA\tRECURSOS")
	for _, room := range rooms {
		var resources []string
		if room.HasProjector {
			resources = append(resources, "projetor")
		}
		if room.HasInternet {
			resources = append(resources, "internet")
		}
		if room.HasAirConditioning {
			resources = append(resources, "ar-condicionado")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			room.ID,
			room.Name,
			room.Capacity,
			simNao(room.IsActive),
			simNao(room.IsFixedReservation),
			strings.Join(resources, ", "),
		)
	}
	_ = w.Flush()
}

func simNao(value bool) string {
	if value {
		return "sim"
	}
	return "não"
}
