package app

import (
	"context"
	"net/http"

	"github.com/MarlonMora23/API-Calinema/api"
	"github.com/MarlonMora23/API-Calinema/internal/domain"
)

// The trigger handlers run synchronously: the response is the summary of the
// finished run. The run deadline keeps a wedged site from holding the
// request open forever.

func (app *application) TriggerMoviesUpdate(w http.ResponseWriter, r *http.Request) {
	app.triggerRun(w, r, app.runner.UpdateMovies)
}

func (app *application) TriggerShowtimesUpdate(w http.ResponseWriter, r *http.Request) {
	app.triggerRun(w, r, app.runner.UpdateShowtimes)
}

func (app *application) TriggerFullUpdate(w http.ResponseWriter, r *http.Request) {
	app.triggerRun(w, r, app.runner.UpdateAll)
}

func (app *application) triggerRun(w http.ResponseWriter, r *http.Request, run func(context.Context) domain.RunSummary) {
	ctx := r.Context()
	if app.config.scrape.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.config.scrape.runTimeout)
		defer cancel()
	}

	summary := run(ctx)

	app.logger.Info("scraping run finished",
		"run_id", summary.ID,
		"submitted", summary.Submitted,
		"dropped", summary.Dropped,
		"errors", len(summary.Errors))

	err := app.writeJSON(w, http.StatusOK, api.RunResponse{Run: toApiRun(summary)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiRun(summary domain.RunSummary) api.Run {
	run := api.Run{
		Id:         summary.ID.String(),
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
		Submitted:  summary.Submitted,
		Dropped:    summary.Dropped,
		Errors:     summary.Errors,
	}

	for _, report := range summary.Adapters {
		run.Adapters = append(run.Adapters, api.AdapterReport{
			CinemaName: report.CinemaName,
			Movies:     report.Movies,
			Showtimes:  report.Showtimes,
			Error:      report.Error,
		})
	}

	return run
}
