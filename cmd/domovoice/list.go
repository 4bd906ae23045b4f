package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"domovoice/internal/domain"
	"domovoice/internal/infra/domoticz"
)

var (
	listJSON   bool
	listFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms, scenes and devices known to the server",
}

func init() {
	listCmd.PersistentFlags().BoolVar(&listJSON, "json", false, "print JSON instead of a table")
	listDevicesCmd.Flags().StringVar(&listFilter, "filter", "all", "device filter: all, light, temp, utility, weather")

	listCmd.AddCommand(
		listRoomsCmd,
		listScenesCmd,
		listLightsCmd,
		listThermostatsCmd,
		listDevicesCmd,
	)
}

var listRoomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List room plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		rooms, err := s.client.Rooms(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), rooms, func(tw io.Writer) {
			fmt.Fprintln(tw, "ID\tNAME")
			for _, r := range rooms {
				fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Name)
			}
		})
	},
}

var listScenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List scenes and groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		scenes, err := s.client.Scenes(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), scenes, func(tw io.Writer) {
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS")
			for _, sc := range scenes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sc.ID, sc.Name, sc.Type, sc.Status)
			}
		})
	},
}

var listLightsCmd = &cobra.Command{
	Use:   "lights",
	Short: "List light switches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		lights, err := s.client.Lights(cmd.Context())
		if err != nil {
			return err
		}
		return renderDevices(cmd.OutOrStdout(), lights)
	},
}

var listDevicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices, optionally filtered by kind",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		q := domoticz.DefaultDeviceQuery()
		q.Filter = listFilter
		devices, err := s.client.Devices(cmd.Context(), q)
		if err != nil {
			return err
		}
		return renderDevices(cmd.OutOrStdout(), devices)
	},
}

var listThermostatsCmd = &cobra.Command{
	Use:   "thermostats",
	Short: "List temperature sensors with their setpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		thermostats, err := s.client.Thermostats(domain.WithCredentialScope(cmd.Context()))
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), thermostats, func(tw io.Writer) {
			fmt.Fprintln(tw, "ID\tNAME\tTEMP\tHUMIDITY\tSETPOINT")
			for _, t := range thermostats {
				setpoint := "-"
				if t.Setpoint != nil {
					setpoint = strconv.FormatFloat(t.Setpoint.Value, 'f', -1, 64) + " (" + t.Setpoint.ID + ")"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, optional(t.Temp), optional(t.Humidity), setpoint)
			}
		})
	},
}

var logCmd = &cobra.Command{
	Use:   "log <message>",
	Short: "Write a message to the Domoticz log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		return s.client.AddLogMessage(cmd.Context(), args[0])
	},
}

var sunCmd = &cobra.Command{
	Use:   "sun",
	Short: "Show today's sunrise and sunset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		sun, err := s.client.SunRiseSet(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), sun, func(tw io.Writer) {
			fmt.Fprintf(tw, "sunrise\t%s\n", sun.Sunrise)
			fmt.Fprintf(tw, "sunset\t%s\n", sun.Sunset)
			fmt.Fprintf(tw, "server time\t%s\n", sun.ServerTime)
		})
	},
}

// render prints v as JSON with --json, otherwise as the table drawn by table.
func render(w io.Writer, v any, table func(tw io.Writer)) error {
	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func renderDevices(w io.Writer, devices []domain.Device) error {
	return render(w, devices, func(tw io.Writer) {
		fmt.Fprintln(tw, "ID\tNAME\tKIND\tSTATUS\tHARDWARE")
		for _, d := range devices {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Kind, d.Status, d.Hardware)
		}
	})
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
