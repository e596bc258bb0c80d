// File: cmd/factory.go
package cmd

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/Kyle6012/plagiarism-detection/internal/apiclient"
	"github.com/Kyle6012/plagiarism-detection/internal/config"
	"github.com/Kyle6012/plagiarism-detection/internal/dashboard"
	"github.com/Kyle6012/plagiarism-detection/internal/guard"
	"github.com/Kyle6012/plagiarism-detection/internal/history"
	"github.com/Kyle6012/plagiarism-detection/internal/network"
	"github.com/Kyle6012/plagiarism-detection/internal/observability"
	"github.com/Kyle6012/plagiarism-detection/internal/results"
	"github.com/Kyle6012/plagiarism-detection/internal/session"
	"github.com/Kyle6012/plagiarism-detection/internal/upload"
)

// Components holds the initialized services a command needs. This struct
// centralizes lifecycle and injection: the session store is built once
// and handed to everything that reads the token.
type Components struct {
	Config    *config.Config
	Logger    *zap.Logger
	Session   *session.Store
	API       *apiclient.Client
	Upload    *upload.Controller
	Results   *results.Controller
	Dashboard *dashboard.Controller
}

// newComponents wires the component graph from the loaded configuration.
// The session is restored optimistically from its persisted token; a
// stale token surfaces on the first authenticated request.
func newComponents() (*Components, error) {
	cfg := config.Get()
	logger := observability.GetLogger()

	netCfg := network.NewDefaultClientConfig()
	netCfg.RequestTimeout = cfg.Network.RequestTimeout
	netCfg.IgnoreTLSErrors = cfg.Network.IgnoreTLSErrors
	netCfg.Logger = logger.Named("network")
	if cfg.Network.ProxyURL != "" {
		proxy, err := url.Parse(cfg.Network.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		netCfg.ProxyURL = proxy
	}

	sess := session.NewStore(cfg.Session.TokenFile, logger)
	sess.Restore()

	api, err := apiclient.New(cfg.Server.BaseURL, network.NewClient(netCfg), sess, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API client: %w", err)
	}

	return &Components{
		Config:    cfg,
		Logger:    logger,
		Session:   sess,
		API:       api,
		Upload:    upload.NewController(api, logger),
		Results:   results.NewController(api, logger),
		Dashboard: dashboard.NewController(api, logger),
	}, nil
}

// openHistory opens the local submission history on demand. Only the
// commands that actually touch it pay for the database handle.
func (c *Components) openHistory() (*history.Store, error) {
	return history.Open(c.Config.History.Path, c.Logger)
}

// checkAccess applies the access guard for the target view. It returns
// nil when the view may render, and a user-facing error otherwise. No
// network call is ever made on a denial.
func (c *Components) checkAccess(target guard.View) error {
	decision := guard.Decide(c.Session.IsAuthenticated(), target)
	if decision.Allow {
		return nil
	}
	switch decision.RedirectTo {
	case guard.ViewLogin:
		return fmt.Errorf("you are not logged in: run 'plagctl login' and retry '%s'", decision.Requested)
	case guard.ViewDashboard:
		return fmt.Errorf("already logged in: run 'plagctl dashboard' to see your account, or 'plagctl logout' first")
	default:
		return fmt.Errorf("access to view %q denied", target)
	}
}
