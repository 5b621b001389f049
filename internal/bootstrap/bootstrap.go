package bootstrap

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	courseinadapter "elearn/internal/modules/course/adapter/in"
	courseoutadapter "elearn/internal/modules/course/adapter/out"
	courseservice "elearn/internal/modules/course/service"
	courseusecase "elearn/internal/modules/course/usecase"
	scheduleinadapter "elearn/internal/modules/schedule/adapter/in"
	scheduleoutadapter "elearn/internal/modules/schedule/adapter/out"
	scheduleservice "elearn/internal/modules/schedule/service"
	scheduleusecase "elearn/internal/modules/schedule/usecase"
	sessioninadapter "elearn/internal/modules/session/adapter/in"
	sessionoutadapter "elearn/internal/modules/session/adapter/out"
	sessionservice "elearn/internal/modules/session/service"
	sessionusecase "elearn/internal/modules/session/usecase"
	"elearn/internal/platform/clock"
	"elearn/internal/platform/config"
	"elearn/internal/platform/logging"
	"elearn/internal/platform/timecodec"
	"elearn/internal/platform/transport"
	uiapp "elearn/internal/ui/app"
)

type App struct {
	SessionCLI  sessioninadapter.CLIHandler
	CourseCLI   courseinadapter.CLIHandler
	ScheduleCLI scheduleinadapter.CLIHandler

	courseGateway *courseoutadapter.HTTPGateway
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	logger = logging.OrDiscard(logger)
	clk := clock.SystemClock{}
	endpoints := cfg.Endpoints()
	client := transport.NewHTTPClient(cfg.HTTPTimeout, cfg.UserAgent, logger)

	sessionSvc := sessionservice.NewSessionManager(
		clk,
		sessionoutadapter.NewFileCookieStore(cfg.SessionPath),
		sessionoutadapter.NewHTTPGateway(client, endpoints, logger.Named("session")),
		logger.Named("session"),
	)
	sessionUC := sessionusecase.NewInteractor(sessionSvc)

	courseGateway, err := courseoutadapter.NewHTTPGateway(client, endpoints, cfg.CacheTTL, logger.Named("course"))
	if err != nil {
		return nil, fmt.Errorf("new course gateway: %w", err)
	}
	courseUC := courseusecase.NewInteractor(
		courseservice.NewDirectory(courseGateway, logger.Named("course")),
		sessionUC,
	)

	codec := timecodec.New(time.Local, cfg.APILocation)
	scheduleUC := scheduleusecase.NewInteractor(
		scheduleservice.NewScheduleService(
			clk,
			codec,
			scheduleoutadapter.NewHTTPSource(client, endpoints, logger.Named("schedule")),
			logger.Named("schedule"),
		),
		sessionUC,
		courseUC,
	)

	return &App{
		SessionCLI:    sessioninadapter.NewCLIHandler(sessionUC),
		CourseCLI:     courseinadapter.NewCLIHandler(courseUC),
		ScheduleCLI:   scheduleinadapter.NewCLIHandler(scheduleUC),
		courseGateway: courseGateway,
	}, nil
}

// Close releases the in-memory course cache.
func (a *App) Close() {
	if a.courseGateway != nil {
		a.courseGateway.Close()
	}
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.CourseCLI, app.ScheduleCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
