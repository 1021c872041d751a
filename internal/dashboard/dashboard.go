// Package dashboard renders the collection overview.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/state"
	"github.com/mediashelf/mediashelf/internal/ui"
	"golang.org/x/sync/errgroup"
)

// API is the part of the backend the dashboard reads
type API interface {
	StatsOverview(ctx context.Context) (*models.StatsOverview, error)
	RecentItems(ctx context.Context) ([]models.MediaItem, error)
}

// Dashboard holds the last loaded overview
type Dashboard struct {
	api    API
	stats  *models.StatsOverview
	recent []models.MediaItem
}

func New(api API) *Dashboard {
	return &Dashboard{api: api}
}

// Load fetches the overview and the recent items concurrently
func (d *Dashboard) Load(ctx context.Context) error {
	var stats *models.StatsOverview
	var recent []models.MediaItem

	g, gctx := errgroup.WithContext(ctx)
	state.Go(g, func() error {
		var err error
		stats, err = d.api.StatsOverview(gctx)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return nil
	})
	state.Go(g, func() error {
		var err error
		recent, err = d.api.RecentItems(gctx)
		if err != nil {
			return fmt.Errorf("failed to load recent items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d.stats = stats
	d.recent = recent
	return nil
}

// Stats returns the last loaded overview
func (d *Dashboard) Stats() *models.StatsOverview {
	return d.stats
}

// Recent returns the last loaded recent items
func (d *Dashboard) Recent() []models.MediaItem {
	return d.recent
}

// Percent is n as a rounded percentage of total, 0 when total is 0
func Percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

// NearestGrade maps an average on the 0 (F) to 12 (A+) scale back to a grade
func NearestGrade(avg float64) *models.Grade {
	if avg <= 0 {
		return nil
	}
	grades := models.Grades()
	i := int(math.Round(avg))
	i = max(0, min(i, len(grades)-1))
	return &grades[i]
}

// Render writes the dashboard
func (d *Dashboard) Render(w io.Writer) error {
	s := d.stats
	if s == nil {
		return fmt.Errorf("dashboard has not been loaded")
	}

	fmt.Fprintln(w, ui.TitleStyle.Render("Dashboard"))
	fmt.Fprintln(w, ui.SubtitleStyle.Render(fmt.Sprintf("%s items tracked", humanize.Comma(int64(s.TotalItems)))))

	if s.TotalItems == 0 {
		ui.EmptyState(w, "🗂️", "No media yet",
			`Use "mediashelf item add" to start tracking your books, movies, games, albums, and more.`)
		return nil
	}

	renderStatusCards(w, s)
	renderCategories(w, s)
	renderRatings(w, s)
	renderRecent(w, d.recent)
	return nil
}

func renderStatusCards(w io.Writer, s *models.StatsOverview) {
	statuses := make([]string, 0, len(s.ByStatus))
	for st := range s.ByStatus {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)

	cards := make([]string, 0, len(statuses))
	for _, st := range statuses {
		n := s.ByStatus[st]
		body := lipgloss.JoinVertical(lipgloss.Left,
			ui.MutedStyle.Render(models.Status(st).Label()),
			ui.StatusBadge(models.Status(st))+" "+ui.TitleStyle.Render(humanize.Comma(int64(n))),
			ui.MutedStyle.Render(fmt.Sprintf("%d%% of total", Percent(n, s.TotalItems))),
		)
		cards = append(cards, ui.CardStyle.Width(20).Render(body))
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func renderCategories(w io.Writer, s *models.StatsOverview) {
	maxCount := 1
	hasItems := false
	for _, c := range s.ByCategory {
		maxCount = max(maxCount, c.Count)
		if c.Count > 0 {
			hasItems = true
		}
	}
	if !hasItems {
		return
	}

	fmt.Fprintln(w, ui.SectionStyle.Render("By Category"))
	for _, c := range s.ByCategory {
		label := lipgloss.NewStyle().Width(16).Render(strings.TrimSpace(c.Icon + " " + c.Name))
		fmt.Fprintf(w, "%s %s %d\n", label, ui.Bar(float64(c.Count)/float64(maxCount), 30, c.Color), c.Count)
	}
}

func renderRatings(w io.Writer, s *models.StatsOverview) {
	if s.AvgRating <= 0 {
		return
	}

	fmt.Fprintln(w, ui.SectionStyle.Render("Ratings Overview"))
	fmt.Fprintf(w, "%s average\n", ui.GradeBadge(NearestGrade(s.AvgRating)))

	total := 0
	for _, n := range s.RatingDistribution {
		total += n
	}
	grades := models.Grades()
	for i := len(grades) - 1; i >= 0; i-- {
		g := grades[i]
		n := s.RatingDistribution[string(g)]
		label := lipgloss.NewStyle().Width(4).Render(ui.GradeBadge(&g))
		ratio := 0.0
		if total > 0 {
			ratio = float64(n) / float64(total)
		}
		fmt.Fprintf(w, "%s %s %d\n", label, ui.Bar(ratio, 30, "#f59e0b"), n)
	}
}

func renderRecent(w io.Writer, recent []models.MediaItem) {
	if len(recent) == 0 {
		return
	}
	fmt.Fprintln(w, ui.SectionStyle.Render("Recently Owned"))
	for _, item := range recent {
		when := ""
		if !item.UpdatedAt.IsZero() {
			when = ui.MutedStyle.Render(humanize.Time(item.UpdatedAt))
		}
		fmt.Fprintf(w, "%6s  %s %s  %s  %s\n",
			fmt.Sprintf("#%d", item.ID), item.CategoryIcon, item.Title, ui.GradeBadge(item.Rating), when)
	}
}
