package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/applog"
	"github.com/hartono/pantau/internal/config"
	"github.com/hartono/pantau/internal/format"
	"github.com/hartono/pantau/internal/layout"
	"github.com/hartono/pantau/internal/notify"
	"github.com/hartono/pantau/internal/realtime"
	"github.com/hartono/pantau/internal/store"
	"github.com/hartono/pantau/internal/stream"
	"github.com/hartono/pantau/internal/tracker"
	"github.com/hartono/pantau/internal/tui"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "report":
			runReport(os.Args[2:])
			return
		case "employees":
			runEmployees(os.Args[2:])
			return
		case "attendance":
			runAttendance(os.Args[2:])
			return
		case "cameras":
			runCameras(os.Args[2:])
			return
		case "captures":
			runCaptures(os.Args[2:])
			return
		case "schedule":
			runSchedule(os.Args[2:])
			return
		case "system":
			runSystem(os.Args[2:])
			return
		case "help", "--help", "-h":
			printHelp()
			return
		}
	}

	fs := flag.NewFlagSet("pantau", flag.ExitOnError)
	baseURL := fs.String("url", "", "Backend base URL (overrides PANTAU_BASE_URL)")
	fs.Parse(os.Args[1:])

	cfg := config.Load()
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	if err := applog.Init(cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer applog.Close()

	db, err := store.OpenDB(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	client := api.New(cfg.BaseURL)

	rtURL := cfg.RealtimeURL
	if rtURL == "" {
		rtURL = client.RealtimeURL()
	}
	rt := realtime.New(rtURL)

	trk, err := tracker.New(client, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error restoring presence state: %v\n", err)
		os.Exit(1)
	}

	center, err := notify.New(db, cfg.NotificationLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading notifications: %v\n", err)
		os.Exit(1)
	}

	lm, err := layout.Load(db, cfg.LayoutDebounce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading layout preferences: %v\n", err)
		os.Exit(1)
	}

	sess := stream.NewSession(rt)

	applog.Info("start", "base_url", cfg.BaseURL)
	model := tui.NewModel(cfg, client, db, rt, trk, center, lm, sess)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Print(`pantau — presence monitoring dashboard client

Usage:
  pantau                                     Start the TUI dashboard (default)
    --url <base>           Backend base URL (env: PANTAU_BASE_URL)

  pantau report attendance                   Print the attendance report
  pantau report alerts                       Print the alert log
  pantau report evidence <employee_id> <date>  Print first-in/last-out capture URLs
    --from <date>          Start date (YYYY-MM-DD)
    --to <date>            End date (YYYY-MM-DD)
    --employee <id>        Filter by employee id
    --export               Print the XLSX export URL instead of rows

  pantau employees list                      List employees
  pantau employees add --code X --name Y [--department D] [--position P]
  pantau employees update <id> [--code X] [--name Y] ...
  pantau employees remove <id> [--yes]       Delete an employee
  pantau employees mark-absent <id> [id...]  Record manual absences for today
  pantau employees templates <id>            List enrolled face templates
  pantau employees templates <id> add <file> [--pose front|left|right]
  pantau employees templates <id> clear [--yes]

  pantau attendance set <id> <date> <PRESENT|ABSENT>   Manual attendance override
  pantau attendance reset <id> <date>                  Drop a manual override

  pantau cameras list                        List cameras with live status
  pantau cameras add --name X --rtsp URL [--area A] [--id N]

  pantau captures list [--limit N]           List saved captures
  pantau captures delete <date> [--yes]      Delete all captures for a date

  pantau schedule                            Show the tracking schedule state
  pantau schedule pause <minutes>            Pause tracking
  pantau schedule resume                     Clear a pause
  pantau schedule auto <on|off>              Toggle auto scheduling

  pantau system                              Show backend system info
  pantau system reset-logs --table <events|alert_logs|both> [--from D] [--to D] [--yes]
  pantau system restart [--yes]              Restart the backend process
  pantau system shutdown [--yes]             Stop the backend process

Environment:
  PANTAU_BASE_URL        Backend base URL (default: http://127.0.0.1:5000)
  PANTAU_REALTIME_URL    Websocket endpoint (default: derived from base URL)
  PANTAU_DATA_DIR        Local state directory (default: ~/.local/share/pantau)
`)
}

func newClient(fs *flag.FlagSet) *api.Client {
	cfg := config.Load()
	if url := fs.Lookup("url"); url != nil && url.Value.String() != "" {
		cfg.BaseURL = url.Value.String()
	}
	return api.New(cfg.BaseURL)
}

func cliCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

// reorderArgs moves flag arguments before positional arguments so that
// flag.Parse handles them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}

func runReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	fs.String("url", "", "Backend base URL")
	from := fs.String("from", "", "Start date (YYYY-MM-DD)")
	to := fs.String("to", "", "End date (YYYY-MM-DD)")
	employee := fs.Int64("employee", 0, "Filter by employee id")
	export := fs.Bool("export", false, "Print the XLSX export URL instead of rows")
	fs.Parse(reorderArgs(args))

	kind := "attendance"
	if fs.NArg() > 0 {
		kind = fs.Arg(0)
	}

	client := newClient(fs)
	filter := api.ReportFilter{From: *from, To: *to, EmployeeID: *employee}

	ctx, cancel := cliCtx()
	defer cancel()

	switch kind {
	case "attendance":
		if *export {
			fmt.Println(client.AttendanceExportURL(filter))
			return
		}
		rows, err := client.AttendanceReport(ctx, filter)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%-10s  %-10s  %-24s  %-8s  %-8s  %-10s  %s\n",
			"DATE", "CODE", "NAME", "IN", "OUT", "STATUS", "VIOLATIONS")
		for _, r := range rows {
			date := "-"
			if r.Date != nil {
				date = *r.Date
			}
			fmt.Printf("%-10s  %-10s  %-24s  %-8s  %-8s  %-10s  %d\n",
				date, r.EmployeeCode, r.EmployeeName,
				timeOnlyOrDash(r.FirstInTS), timeOnlyOrDash(r.LastOutTS),
				r.Status, r.ViolationCount)
		}

	case "alerts":
		if *export {
			fmt.Println(client.AlertExportURL(filter))
			return
		}
		rows, err := client.AlertReport(ctx, filter)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%-17s  %-10s  %-24s  %-6s  %s\n", "TIMESTAMP", "CODE", "NAME", "TYPE", "MESSAGE")
		for _, r := range rows {
			ts, code, name, msg := "-", "-", "-", ""
			if r.Timestamp != nil {
				ts = format.Ts(*r.Timestamp)
			}
			if r.EmployeeCode != nil {
				code = *r.EmployeeCode
			}
			if r.EmployeeName != nil {
				name = *r.EmployeeName
			}
			if r.Message != nil {
				msg = *r.Message
			}
			fmt.Printf("%-17s  %-10s  %-24s  %-6s  %s\n", ts, code, name, format.AlertType(r.AlertType), msg)
		}

	case "evidence":
		if fs.NArg() < 3 {
			fmt.Fprintln(os.Stderr, "Usage: pantau report evidence <employee_id> <date>")
			os.Exit(1)
		}
		id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid employee id %q", fs.Arg(1)))
		}
		ev, err := client.AttendanceEvidence(ctx, id, fs.Arg(2))
		if err != nil {
			fatal(err)
		}
		if ev.FirstInURL != nil {
			fmt.Printf("First in  %s  %s\n", timeOnlyOrDash(ev.FirstInTS), client.AbsoluteURL(*ev.FirstInURL))
		} else {
			fmt.Println("First in  -")
		}
		if ev.LastOutURL != nil {
			fmt.Printf("Last out  %s  %s\n", timeOnlyOrDash(ev.LastOutTS), client.AbsoluteURL(*ev.LastOutURL))
		} else {
			fmt.Println("Last out  -")
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown report %q. Use attendance, alerts, or evidence.\n", kind)
		os.Exit(1)
	}
}

func timeOnlyOrDash(ts *string) string {
	if ts == nil {
		return "-"
	}
	return format.TimeOnly(*ts)
}

func runEmployees(args []string) {
	fs := flag.NewFlagSet("employees", flag.ExitOnError)
	fs.String("url", "", "Backend base URL")
	code := fs.String("code", "", "Employee code")
	name := fs.String("name", "", "Employee name")
	department := fs.String("department", "", "Department")
	position := fs.String("position", "", "Position")
	pose := fs.String("pose", "", "Pose label for a face template: front, left, or right")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	fs.Parse(reorderArgs(args))

	sub := "list"
	if fs.NArg() > 0 {
		sub = fs.Arg(0)
	}

	client := newClient(fs)
	ctx, cancel := cliCtx()
	defer cancel()

	switch sub {
	case "list":
		emps, err := client.Employees(ctx)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%-5s  %-10s  %-24s  %-16s  %s\n", "ID", "CODE", "NAME", "DEPARTMENT", "ACTIVE")
		for _, e := range emps {
			dept := "-"
			if e.Department != nil {
				dept = *e.Department
			}
			fmt.Printf("%-5d  %-10s  %-24s  %-16s  %v\n", e.ID, e.EmployeeCode, e.Name, dept, e.IsActive)
		}

	case "add":
		ne := api.NewEmployee{EmployeeCode: *code, Name: *name}
		if *department != "" {
			ne.Department = department
		}
		if *position != "" {
			ne.Position = position
		}
		id, err := client.AddEmployee(ctx, ne)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Employee #%d created.\n", id)

	case "update":
		if fs.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: pantau employees update <id> [--code X] [--name Y] [--department D] [--position P]")
			os.Exit(1)
		}
		id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid employee id %q", fs.Arg(1)))
		}
		ne := api.NewEmployee{EmployeeCode: *code, Name: *name}
		if *department != "" {
			ne.Department = department
		}
		if *position != "" {
			ne.Position = position
		}
		if err := client.UpdateEmployee(ctx, id, ne); err != nil {
			fatal(err)
		}
		fmt.Printf("Employee #%d updated.\n", id)

	case "remove":
		if fs.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: pantau employees remove <id> [--yes]")
			os.Exit(1)
		}
		id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid employee id %q", fs.Arg(1)))
		}
		if !*yes {
			emp := findEmployee(ctx, client, id)
			fmt.Printf("Deleting %s and their face templates. Type the employee code (%s) to confirm: ",
				emp.Name, emp.EmployeeCode)
			reader := bufio.NewReader(os.Stdin)
			typed, _ := reader.ReadString('\n')
			if strings.TrimSpace(typed) != emp.EmployeeCode {
				fmt.Println("Code mismatch, aborted.")
				return
			}
		}
		if err := client.DeleteEmployee(ctx, id); err != nil {
			fatal(err)
		}
		fmt.Printf("Employee #%d deleted.\n", id)

	case "mark-absent":
		if fs.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: pantau employees mark-absent <id> [id...]")
			os.Exit(1)
		}
		var ids []int64
		for _, arg := range fs.Args()[1:] {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				fatal(fmt.Errorf("invalid employee id %q", arg))
			}
			ids = append(ids, id)
		}
		marked, err := client.MarkAbsent(ctx, ids)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Marked %d employees absent.\n", marked)

	case "templates":
		if fs.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: pantau employees templates <id> [add <file> | clear]")
			os.Exit(1)
		}
		id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid employee id %q", fs.Arg(1)))
		}
		runTemplates(ctx, client, fs, id, *pose, *yes)

	default:
		fmt.Fprintf(os.Stderr, "Unknown employees command %q. Use list, add, update, remove, mark-absent, or templates.\n", sub)
		os.Exit(1)
	}
}

func findEmployee(ctx context.Context, client *api.Client, id int64) api.Employee {
	emps, err := client.Employees(ctx)
	if err != nil {
		fatal(err)
	}
	for _, e := range emps {
		if e.ID == id {
			return e
		}
	}
	fatal(fmt.Errorf("employee #%d not found", id))
	return api.Employee{}
}

func runTemplates(ctx context.Context, client *api.Client, fs *flag.FlagSet, id int64, pose string, yes bool) {
	action := "list"
	if fs.NArg() > 2 {
		action = fs.Arg(2)
	}

	switch action {
	case "list":
		tmpls, err := client.FaceTemplates(ctx, id)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%-5s  %-17s  %-7s  %-8s  %s\n", "ID", "CREATED", "POSE", "QUALITY", "IMAGE")
		for _, t := range tmpls {
			created, poseLabel, img := "-", "-", "-"
			quality := ""
			if t.CreatedAt != nil {
				created = format.Ts(*t.CreatedAt)
			}
			if t.PoseLabel != nil && *t.PoseLabel != "" {
				poseLabel = *t.PoseLabel
			}
			if t.QualityScore != nil {
				quality = fmt.Sprintf("%.2f", *t.QualityScore)
			}
			if t.ImageURL != nil {
				img = client.AbsoluteURL(*t.ImageURL)
			}
			fmt.Printf("%-5d  %-17s  %-7s  %-8s  %s\n", t.ID, created, poseLabel, quality, img)
		}

	case "add":
		if fs.NArg() < 4 {
			fmt.Fprintln(os.Stderr, "Usage: pantau employees templates <id> add <image file> [--pose front|left|right]")
			os.Exit(1)
		}
		dataURL, err := imageDataURL(fs.Arg(3))
		if err != nil {
			fatal(err)
		}
		if err := client.AddFaceTemplate(ctx, id, dataURL, pose); err != nil {
			fatal(err)
		}
		fmt.Printf("Face template enrolled for employee #%d.\n", id)

	case "clear":
		if !yes && !confirm(fmt.Sprintf("Delete ALL face templates for employee #%d?", id)) {
			fmt.Println("Aborted.")
			return
		}
		if err := client.ClearFaceTemplates(ctx, id); err != nil {
			fatal(err)
		}
		fmt.Printf("Face templates cleared for employee #%d.\n", id)

	default:
		fmt.Fprintf(os.Stderr, "Unknown templates command %q. Use list, add, or clear.\n", action)
		os.Exit(1)
	}
}

// imageDataURL reads an image file and wraps it in the data URL form
// the enrollment endpoint expects.
func imageDataURL(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := "image/jpeg"
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func runAttendance(args []string) {
	fs := flag.NewFlagSet("attendance", flag.ExitOnError)
	fs.String("url", "", "Backend base URL")
	fs.Parse(reorderArgs(args))

	if fs.NArg() < 3 {
		fmt.Fprintln(os.Stderr, "Usage: pantau attendance set <id> <date> <PRESENT|ABSENT>\n       pantau attendance reset <id> <date>")
		os.Exit(1)
	}
	id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		fatal(fmt.Errorf("invalid employee id %q", fs.Arg(1)))
	}
	date := fs.Arg(2)

	client := newClient(fs)
	ctx, cancel := cliCtx()
	defer cancel()

	switch fs.Arg(0) {
	case "set":
		if fs.NArg() < 4 {
			fmt.Fprintln(os.Stderr, "Usage: pantau attendance set <id> <date> <PRESENT|ABSENT>")
			os.Exit(1)
		}
		status := strings.ToUpper(fs.Arg(3))
		if err := client.SetManualAttendance(ctx, id, date, status); err != nil {
			fatal(err)
		}
		fmt.Printf("Employee #%d marked %s for %s.\n", id, status, date)

	case "reset":
		if err := client.ResetAttendance(ctx, id, date); err != nil {
			fatal(err)
		}
		fmt.Printf("Manual override removed for employee #%d on %s.\n", id, date)

	default:
		fmt.Fprintf(os.Stderr, "Unknown attendance command %q. Use set or reset.\n", fs.Arg(0))
		os.Exit(1)
	}
}

func runCameras(args []string) {
	fs := flag.NewFlagSet("cameras", flag.ExitOnError)
	fs.String("url", "", "Backend base URL")
	name := fs.String("name", "", "Camera name")
	rtsp := fs.String("rtsp", "", "RTSP source URL")
	area := fs.String("area", "", "Area label")
	id := fs.Int64("id", 0, "Explicit camera id")
	fs.Parse(reorderArgs(args))

	sub := "list"
	if fs.NArg() > 0 {
		sub = fs.Arg(0)
	}

	client := newClient(fs)
	ctx, cancel := cliCtx()
	defer cancel()

	switch sub {
	case "list":
		cams, err := client.Cameras(ctx)
		if err != nil {
			fatal(err)
		}
		statuses, err := client.CameraStatuses(ctx)
		if err != nil {
			fatal(err)
		}
		byID := make(map[int64]api.CameraStatus, len(statuses))
		for _, st := range statuses {
			byID[st.ID] = st
		}
		fmt.Printf("%-5s  %-20s  %-14s  %-4s  %s\n", "ID", "NAME", "AREA", "AI", "STREAM")
		for _, cam := range cams {
			st := byID[cam.ID]
			fmt.Printf("%-5d  %-20s  %-14s  %-4v  %v\n", cam.ID, cam.Name, cam.Area, st.AIRunning, st.StreamEnabled)
		}

	case "add":
		camID, err := client.AddCamera(ctx, *name, *rtsp, *area, *id)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Camera #%d created.\n", camID)

	default:
		fmt.Fprintf(os.Stderr, "Unknown cameras command %q. Use list or add.\n", sub)
		os.Exit(1)
	}
}

func runCaptures(args []string) {
	fs := flag.NewFlagSet("captures", flag.ExitOnError)
	fs.String("url", "", "Backend base URL")
	limit := fs.Int("limit", 50, "Number of captures to list")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	fs.Parse(reorderArgs(args))

	sub := "list"
	if fs.NArg() > 0 {
		sub = fs.Arg(0)
	}

	client := newClient(fs)
	ctx, cancel := cliCtx()
	defer cancel()

	switch sub {
	case "list":
		caps, err := client.Captures(ctx, *limit)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%-17s  %-14s  %-32s  %s\n", "TIMESTAMP", "AREA", "FILE", "NOTE")
		for _, c := range caps {
			ts, area := "-", "-"
			if c.Timestamp != nil {
				ts = format.Ts(*c.Timestamp)
			}
			if c.Area != nil && *c.Area != "" {
				area = *c.Area
			}
			fmt.Printf("%-17s  %-14s  %-32s  %s\n", ts, area, c.File, c.Note)
		}

	case "delete":
		if fs.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: pantau captures delete <date> [--yes]")
			os.Exit(1)
		}
		date := fs.Arg(1)
		if !*yes && !confirm(fmt.Sprintf("Delete ALL captures for %s?", date)) {
			fmt.Println("Aborted.")
			return
		}
		res, err := client.DeleteCaptures(ctx, date, true)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Removed %d files and %d log rows.\n", res.FilesRemoved, res.LogRemoved)

	default:
		fmt.Fprintf(os.Stderr, "Unknown captures command %q. Use list or delete.\n", sub)
		os.Exit(1)
	}
}

func runSchedule(args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	fs.String("url", "", "Backend base URL")
	fs.Parse(reorderArgs(args))

	client := newClient(fs)
	ctx, cancel := cliCtx()
	defer cancel()

	if fs.NArg() == 0 {
		printSchedule(ctx, client)
		return
	}

	switch fs.Arg(0) {
	case "pause":
		minutes := 30
		if fs.NArg() > 1 {
			n, err := strconv.Atoi(fs.Arg(1))
			if err != nil {
				fatal(fmt.Errorf("invalid minutes %q", fs.Arg(1)))
			}
			minutes = n
		}
		st, err := client.PauseSchedule(ctx, minutes, "manual")
		if err != nil {
			fatal(err)
		}
		if st.PauseUntil != nil {
			fmt.Printf("Paused until %s.\n", format.Ts(*st.PauseUntil))
		}

	case "resume":
		if _, err := client.SetScheduleMode(ctx, api.ScheduleUpdate{ClearPause: true}); err != nil {
			fatal(err)
		}
		fmt.Println("Pause cleared.")

	case "auto":
		if fs.NArg() < 2 || (fs.Arg(1) != "on" && fs.Arg(1) != "off") {
			fmt.Fprintln(os.Stderr, "Usage: pantau schedule auto <on|off>")
			os.Exit(1)
		}
		auto := fs.Arg(1) == "on"
		if _, err := client.SetScheduleMode(ctx, api.ScheduleUpdate{AutoSchedule: &auto}); err != nil {
			fatal(err)
		}
		fmt.Printf("Auto scheduling %s.\n", fs.Arg(1))

	default:
		fmt.Fprintf(os.Stderr, "Unknown schedule command %q. Use pause, resume, or auto.\n", fs.Arg(0))
		os.Exit(1)
	}
}

func printSchedule(ctx context.Context, client *api.Client) {
	st, err := client.ScheduleState(ctx)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Tracking:    %v\n", st.TrackingActive)
	fmt.Printf("Auto:        %v\n", st.AutoSchedule)
	fmt.Printf("Work hours:  %s\n", st.WorkHours)
	if st.LunchBreak != "" {
		fmt.Printf("Lunch break: %s\n", st.LunchBreak)
	}
	if st.SuppressAlerts {
		fmt.Println("Alerts:      suppressed")
	}
	if st.PauseUntil != nil {
		fmt.Printf("Paused until %s\n", format.Ts(*st.PauseUntil))
	}
}

func runSystem(args []string) {
	fs := flag.NewFlagSet("system", flag.ExitOnError)
	fs.String("url", "", "Backend base URL")
	table := fs.String("table", "", "Log table to reset: events, alert_logs, or both")
	from := fs.String("from", "", "Start date (YYYY-MM-DD)")
	to := fs.String("to", "", "End date (YYYY-MM-DD)")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	fs.Parse(reorderArgs(args))

	client := newClient(fs)
	ctx, cancel := cliCtx()
	defer cancel()

	if fs.NArg() == 0 {
		info, err := client.SystemInfo(ctx)
		if err != nil {
			fatal(err)
		}
		if info.InternetMS != nil {
			fmt.Printf("Internet: %.0f ms\n", *info.InternetMS)
		} else {
			fmt.Println("Internet: offline")
		}
		if info.GPUUsagePercent != nil {
			fmt.Printf("GPU:      %d%%\n", *info.GPUUsagePercent)
		}
		if info.MemoryUsedBytes != nil && info.MemoryTotalBytes != nil {
			fmt.Printf("Memory:   %s / %s\n", format.Bytes(*info.MemoryUsedBytes), format.Bytes(*info.MemoryTotalBytes))
		}
		if health, err := client.SystemHealth(ctx); err == nil {
			fmt.Printf("Backend:  %s, up %s\n", health.Status, (time.Duration(health.UptimeSeconds) * time.Second).String())
		}
		return
	}

	switch fs.Arg(0) {
	case "reset-logs":
		if *table == "" {
			fmt.Fprintln(os.Stderr, "Usage: pantau system reset-logs --table <events|alert_logs|both> [--from D] [--to D] [--yes]")
			os.Exit(1)
		}
		if !*yes && !confirm(fmt.Sprintf("Reset %s logs?", *table)) {
			fmt.Println("Aborted.")
			return
		}
		res, err := client.ResetLogs(ctx, *table, *from, *to)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Deleted %d events and %d alert logs.\n", res.DeletedEvents, res.DeletedAlertLogs)

	case "restart":
		if !*yes && !confirm("Restart the backend process?") {
			fmt.Println("Aborted.")
			return
		}
		if err := client.RestartSystem(ctx); err != nil {
			fatal(err)
		}
		fmt.Println("Restart scheduled.")

	case "shutdown":
		if !*yes && !confirm("Shut down the backend process?") {
			fmt.Println("Aborted.")
			return
		}
		if err := client.ShutdownSystem(ctx); err != nil {
			fatal(err)
		}
		fmt.Println("Shutdown scheduled.")

	default:
		fmt.Fprintf(os.Stderr, "Unknown system command %q. Use reset-logs, restart, or shutdown.\n", fs.Arg(0))
		os.Exit(1)
	}
}
