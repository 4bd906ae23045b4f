package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"domovoice/internal/infra/domoticz"
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Create, delete and inspect room plans",
}

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Create, delete and inspect scenes and groups",
	Long: `Maintenance commands for scenes and groups. These change the server
directly and are never reachable from spoken commands.

Examples:
  domovoice scene add "Movie night"
  domovoice scene add --group "Downstairs"
  domovoice scene add-device 12 7 --command off
  domovoice scene add-timer 12 --hour 22 --minute 30 --command off`,
}

var (
	sceneGroup       bool
	sceneDevCommand  string
	sceneDevLevel    int
	sceneDevOnDelay  string
	sceneDevOffDelay string
	timerSpec        domoticz.SceneTimerSpec
)

func init() {
	roomCmd.AddCommand(roomAddCmd, roomDeleteCmd, roomDevicesCmd)

	sceneAddCmd.Flags().BoolVar(&sceneGroup, "group", false, "create a group instead of a scene")

	sceneAddDeviceCmd.Flags().BoolVar(&sceneGroup, "group", false, "the target is a group")
	sceneAddDeviceCmd.Flags().StringVar(&sceneDevCommand, "command", "on", "switch command for the device: on or off")
	sceneAddDeviceCmd.Flags().IntVar(&sceneDevLevel, "level", 100, "dimmer level")
	sceneAddDeviceCmd.Flags().StringVar(&sceneDevOnDelay, "on-delay", "0", "seconds before switching on")
	sceneAddDeviceCmd.Flags().StringVar(&sceneDevOffDelay, "off-delay", "0", "seconds before switching off")

	f := sceneAddTimerCmd.Flags()
	f.BoolVar(&timerSpec.Active, "active", true, "enable the timer")
	f.StringVar(&timerSpec.TimerType, "type", "2", "Domoticz timer type (2 = on time)")
	f.StringVar(&timerSpec.Command, "command", "0", "0 = on, 1 = off")
	f.StringVar(&timerSpec.Date, "date", "", "date for fixed-date timers")
	f.StringVar(&timerSpec.Hour, "hour", "0", "hour of day")
	f.StringVar(&timerSpec.Minute, "minute", "0", "minute of hour")
	f.StringVar(&timerSpec.Randomness, "randomness", "false", "randomise the trigger time")
	f.StringVar(&timerSpec.Level, "level", "100", "dimmer level")
	f.StringVar(&timerSpec.Days, "days", "128", "day bitmask (128 = every day)")

	sceneCmd.AddCommand(
		sceneAddCmd,
		sceneDeleteCmd,
		sceneDevicesCmd,
		sceneAddDeviceCmd,
		sceneRemoveDeviceCmd,
		sceneTimersCmd,
		sceneAddTimerCmd,
	)
}

var roomAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a room plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		return s.client.AddRoom(cmd.Context(), args[0])
	},
}

var roomDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a room plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		return s.client.DeleteRoom(cmd.Context(), args[0])
	},
}

var roomDevicesCmd = &cobra.Command{
	Use:   "devices <id>",
	Short: "List the devices assigned to a room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		devices, err := s.client.RoomDevices(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return renderDevices(cmd.OutOrStdout(), devices)
	},
}

var sceneAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a scene or group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		return s.client.AddScene(cmd.Context(), args[0], sceneGroup)
	},
}

var sceneDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a scene or group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		return s.client.DeleteScene(cmd.Context(), args[0])
	},
}

var sceneDevicesCmd = &cobra.Command{
	Use:   "devices <id>",
	Short: "List the members of a scene or group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		devices, err := s.client.SceneDevices(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return renderDevices(cmd.OutOrStdout(), devices)
	},
}

var sceneAddDeviceCmd = &cobra.Command{
	Use:   "add-device <scene-id> <device-id>",
	Short: "Add a device to a scene or group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		return s.client.AddSceneDevice(cmd.Context(), domoticz.SceneDevice{
			SceneID:  args[0],
			DeviceID: args[1],
			Group:    sceneGroup,
			Command:  sceneDevCommand,
			Level:    sceneDevLevel,
			OnDelay:  sceneDevOnDelay,
			OffDelay: sceneDevOffDelay,
		})
	},
}

var sceneRemoveDeviceCmd = &cobra.Command{
	Use:   "remove-device <member-id>",
	Short: "Remove a membership row from a scene or group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		return s.client.DeleteSceneDevice(cmd.Context(), args[0])
	},
}

var sceneTimersCmd = &cobra.Command{
	Use:   "timers <id>",
	Short: "List the timers of a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		timers, err := s.client.SceneTimers(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), timers, func(tw io.Writer) {
			fmt.Fprintln(tw, "ID\tACTIVE\tTYPE\tTIME\tCOMMAND")
			for _, t := range timers {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", t.ID, strconv.FormatBool(t.Active), t.TimerType, t.Time, t.Command)
			}
		})
	},
}

var sceneAddTimerCmd = &cobra.Command{
	Use:   "add-timer <scene-id>",
	Short: "Schedule a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		spec := timerSpec
		spec.SceneID = args[0]
		return s.client.AddSceneTimer(cmd.Context(), spec)
	},
}
