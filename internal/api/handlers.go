package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
	"github.com/javiermolinar/eventide/internal/llm"
)

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// getSchedule lists the events occurring on ?date, or every event.
func (s *Server) getSchedule(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		events []*event.Event
		err    error
	)
	if date := c.QueryParam("date"); date != "" {
		if _, perr := dateutil.ParseDate(date); perr != nil {
			return perr
		}
		events, err = s.deps.Repo.ListByDate(ctx, date)
	} else {
		events, err = s.deps.Repo.ListAll(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scheduleResponse{Schedule: nonNil(events)})
}

// getScheduleRange lists the events touching ?start..?end.
func (s *Server) getScheduleRange(c echo.Context) error {
	start, end := c.QueryParam("start"), c.QueryParam("end")
	if start == "" || end == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "start and end are required")
	}
	if _, err := dateutil.NewDateRange(start, end); err != nil {
		return err
	}
	events, err := s.deps.Repo.ListByRange(c.Request().Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scheduleResponse{Schedule: nonNil(events)})
}

func (s *Server) getEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	e, err := s.deps.Repo.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) createSchedule(c echo.Context) error {
	f, err := bindEvent(c)
	if err != nil {
		return err
	}

	e := f.toEvent(0)
	if err := s.deps.Repo.Create(c.Request().Context(), e); err != nil {
		return err
	}
	s.logger.Infow("Schedule created", "id", e.ID, "title", e.Title)
	return c.JSON(http.StatusCreated, createResponse{Message: "Schedule created!", ID: e.ID, EventInfo: e})
}

func (s *Server) updateSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := s.deps.Repo.Get(ctx, id); err != nil {
		return err
	}

	f, err := bindEvent(c)
	if err != nil {
		return err
	}
	if f.Urgency == "" {
		return echo.NewHTTPError(http.StatusBadRequest,
			"Missing required fields: title, startDate, endDate, start, end, urgency")
	}

	if err := s.deps.Repo.Update(ctx, f.toEvent(id)); err != nil {
		return err
	}
	s.logger.Infow("Schedule updated", "id", id)
	return c.JSON(http.StatusOK, messageResponse{Message: "Schedule updated"})
}

func (s *Server) deleteSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	e, err := s.deps.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if e.Locked {
		return fmt.Errorf("cannot delete a locked event: %w", event.ErrLocked)
	}
	if err := s.deps.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("Schedule deleted", "id", id)
	return c.JSON(http.StatusOK, messageResponse{Message: "Schedule deleted"})
}

func (s *Server) optimizeSchedule(c echo.Context) error {
	var req optimizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.Schedule) == 0 {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: llm.MessageEmpty})
	}
	mask, err := event.ParseMask(req.AllowedModifications)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if s.deps.Optimizer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "optimizer is not configured")
	}

	res, err := s.deps.Optimizer.Optimize(c.Request().Context(), req.Schedule, mask)
	if err != nil {
		s.logger.Errorw("Error optimizing schedule", "error", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to optimize schedule"})
	}
	if res.Message != "" {
		return c.JSON(http.StatusOK, messageResponse{Message: res.Message})
	}
	return c.JSON(http.StatusOK, scheduleResponse{Schedule: nonNil(res.Schedule)})
}

func (s *Server) summarizeCalendar(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.Schedule) == 0 {
		return c.JSON(http.StatusOK, summaryResponse{Message: "No events to summarize", Summary: llm.NoEventsSummary})
	}
	if s.deps.Summarizer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "summarizer is not configured")
	}

	summary, err := s.deps.Summarizer.Summarize(c.Request().Context(), req.Schedule)
	if err != nil {
		s.logger.Errorw("Error summarizing calendar", "error", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to generate summary"})
	}
	return c.JSON(http.StatusOK, summaryResponse{Summary: summary})
}

// getLayout returns the grid descriptors for a set of displayed dates.
//
//	?date=&mode=single|week|range&until=   anchor-based dates
//	?dates=a,b,c                           custom dates
//	?grid_start=&grid_end=&interval=       window override
func (s *Server) getLayout(c echo.Context) error {
	dates, err := displayDates(c)
	if err != nil {
		return err
	}

	cfg := s.deps.Layout
	if gs, ge := c.QueryParam("grid_start"), c.QueryParam("grid_end"); gs != "" || ge != "" || c.QueryParam("interval") != "" {
		if gs == "" {
			gs = event.FormatMinutes(cfg.Window.Start)
		}
		if ge == "" {
			ge = event.FormatMinutes(cfg.Window.End)
		}
		interval := cfg.Window.Interval
		if v := c.QueryParam("interval"); v != "" {
			if interval, err = strconv.Atoi(v); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "interval must be an integer")
			}
		}
		w, err := event.NewWindow(gs, ge, interval)
		if err != nil {
			return err
		}
		cfg.Window = w
		cfg.Axis = layout.Axis{}
	}

	events, err := s.deps.Repo.ListByRange(c.Request().Context(), dates[0], dates[len(dates)-1])
	if err != nil {
		return err
	}

	g := layout.Build(events, dates, cfg, s.logger)
	return c.JSON(http.StatusOK, newLayoutResponse(g))
}

func displayDates(c echo.Context) ([]string, error) {
	if raw := c.QueryParam("dates"); raw != "" {
		return dateutil.CustomDates(strings.Split(raw, ","))
	}
	mode, err := dateutil.ParseViewMode(c.QueryParam("mode"))
	if err != nil {
		return nil, err
	}
	if mode == dateutil.ViewCustom {
		return nil, fmt.Errorf("custom mode needs ?dates: %w", dateutil.ErrNoDates)
	}
	anchor := c.QueryParam("date")
	if anchor == "" {
		anchor = dateutil.Today()
	}
	return dateutil.DisplayDates(mode, anchor, c.QueryParam("until"), nil)
}

func bindEvent(c echo.Context) (*eventFields, error) {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	f := req.fields()
	if err := c.Validate(f); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			"Missing required fields: title, startDate, endDate, start, end").SetInternal(err)
	}
	return f, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func nonNil(events []*event.Event) []*event.Event {
	if events == nil {
		return []*event.Event{}
	}
	return events
}
