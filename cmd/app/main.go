package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	conf "github.com/oneee-playground/crackdash/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configFile string

		username, password string

		jobID, jobName, toolID string
		jobParams              map[string]string
		follow                 bool
		order                  []string

		resourceID, managerID string
		resourceParams        map[string]string
	)

	app := kingpin.New(filepath.Base(os.Args[0]), "Operator console for a password cracking job queue.").UsageWriter(os.Stdout)
	app.HelpFlag.Short('h')
	app.Flag(
		"config.file", "YAML configuration file. Environment variables are applied first.",
	).PlaceHolder("<filename>").ExistingFileVar(&configFile)

	loginCmd := app.Command("login", "Log in and store the session.")
	loginCmd.Arg("username", "Username.").Required().StringVar(&username)
	loginCmd.Flag("password", "Password.").Envar("CRACKDASH_PASSWORD").Required().StringVar(&password)

	logoutCmd := app.Command("logout", "Log out and forget the session.")
	whoamiCmd := app.Command("whoami", "Show the stored session.")

	jobsCmd := app.Command("jobs", "Show the job board.")

	jobCmd := app.Command("job", "Show one job.")
	jobCmd.Arg("id", "Job ID.").Required().StringVar(&jobID)
	jobCmd.Flag("follow", "Keep refreshing until interrupted.").Short('f').BoolVar(&follow)

	submitCmd := app.Command("submit", "Submit a new job.")
	submitCmd.Flag("name", "Job name.").Required().StringVar(&jobName)
	submitCmd.Flag("tool", "Tool ID.").Required().StringVar(&toolID)
	submitCmd.Flag("param", "Tool parameter as key=value.").Short('p').StringMapVar(&jobParams)

	pauseCmd := app.Command("pause", "Pause a job.")
	pauseCmd.Arg("id", "Job ID.").Required().StringVar(&jobID)
	resumeCmd := app.Command("resume", "Resume a job.")
	resumeCmd.Arg("id", "Job ID.").Required().StringVar(&jobID)
	stopCmd := app.Command("stop", "Stop a job.")
	stopCmd.Arg("id", "Job ID.").Required().StringVar(&jobID)
	deleteCmd := app.Command("delete", "Delete a job.")
	deleteCmd.Arg("id", "Job ID.").Required().StringVar(&jobID)

	reorderCmd := app.Command("reorder", "Reorder the active queue. Unlisted jobs keep their relative order after the listed ones.")
	reorderCmd.Arg("ids", "Job IDs in their new order.").Required().StringsVar(&order)

	resourcesCmd := app.Command("resources", "Resource related commands.")
	resourcesListCmd := resourcesCmd.Command("list", "List connected resources.").Default()
	resourcesPauseCmd := resourcesCmd.Command("pause", "Pause a resource.")
	resourcesPauseCmd.Arg("id", "Resource ID.").Required().StringVar(&resourceID)
	resourcesResumeCmd := resourcesCmd.Command("resume", "Resume a resource.")
	resourcesResumeCmd.Arg("id", "Resource ID.").Required().StringVar(&resourceID)
	resourcesDisconnectCmd := resourcesCmd.Command("disconnect", "Disconnect a resource.")
	resourcesDisconnectCmd.Arg("id", "Resource ID.").Required().StringVar(&resourceID)
	resourcesManagersCmd := resourcesCmd.Command("managers", "List resource managers.")
	resourcesConnectCmd := resourcesCmd.Command("connect", "Connect a resource through a manager.")
	resourcesConnectCmd.Arg("manager", "Resource manager ID.").Required().StringVar(&managerID)
	resourcesConnectCmd.Flag("param", "Manager parameter as key=value.").Short('p').StringMapVar(&resourceParams)

	toolsCmd := app.Command("tools", "List available tools.")

	watchCmd := app.Command("watch", "Keep the job board and resources fresh until interrupted.")

	parsedCmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := conf.LoadFromEnv(); err != nil {
		kingpin.Fatalf("Failed to load environment: %v", err)
	}
	if configFile != "" {
		if err := conf.LoadFromFile(configFile); err != nil {
			kingpin.Fatalf("Failed to load config file: %v", err)
		}
	}

	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		kingpin.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, logger)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return 1
	}
	defer a.Close()

	switch parsedCmd {
	case loginCmd.FullCommand():
		err = a.login(ctx, username, password)
	case logoutCmd.FullCommand():
		err = a.logout(ctx)
	case whoamiCmd.FullCommand():
		err = a.whoami()

	case jobsCmd.FullCommand():
		err = a.listJobs(ctx)
	case jobCmd.FullCommand():
		err = a.job(ctx, jobID, follow)
	case submitCmd.FullCommand():
		err = a.submit(ctx, jobName, toolID, jobParams)
	case pauseCmd.FullCommand():
		err = a.pauseJob(ctx, jobID)
	case resumeCmd.FullCommand():
		err = a.resumeJob(ctx, jobID)
	case stopCmd.FullCommand():
		err = a.stopJob(ctx, jobID)
	case deleteCmd.FullCommand():
		err = a.deleteJob(ctx, jobID)
	case reorderCmd.FullCommand():
		err = a.reorder(ctx, order)

	case resourcesListCmd.FullCommand():
		err = a.listResources(ctx)
	case resourcesPauseCmd.FullCommand():
		err = a.pauseResource(ctx, resourceID)
	case resourcesResumeCmd.FullCommand():
		err = a.resumeResource(ctx, resourceID)
	case resourcesDisconnectCmd.FullCommand():
		err = a.disconnectResource(ctx, resourceID)
	case resourcesManagersCmd.FullCommand():
		err = a.managers(ctx)
	case resourcesConnectCmd.FullCommand():
		err = a.connect(ctx, managerID, resourceParams)

	case toolsCmd.FullCommand():
		err = a.tools(ctx)

	case watchCmd.FullCommand():
		err = a.watch(ctx)
	}

	a.flushNotifications(os.Stderr)

	return checkErr(err)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stderr), lvl,
	)), nil
}

func checkErr(err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
