package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/script"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/repositories"
)

// PageSize is the number of scripts per dashboard page
const PageSize = 12

// ExportLimit caps the rows of a library export
const ExportLimit = 500

type ScriptService struct {
	scripts  repositories.ScriptRepo
	exporter *export.Service
}

func NewScriptService(scripts repositories.ScriptRepo, exporter *export.Service) *ScriptService {
	return &ScriptService{scripts: scripts, exporter: exporter}
}

// List returns one page of uid's scripts, newest first. cursor is the
// NextCursor of the previous page; query filters by substring.
func (s *ScriptService) List(ctx context.Context, uid, cursor, query string) (*models.ScriptPage, error) {
	filter := models.ScriptFilter{
		UserUID: uid,
		Query:   strings.TrimSpace(query),
		Limit:   PageSize + 1,
	}
	if cursor != "" {
		after, err := uuid.Parse(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: bad cursor", ErrInvalidRequest)
		}
		filter.After = &after
	}

	scripts, err := s.scripts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", notFound(err))
	}
	total, err := s.scripts.Count(ctx, uid, filter.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to count scripts: %w", err)
	}

	page := &models.ScriptPage{Scripts: scripts, Total: total}
	if len(scripts) > PageSize {
		page.Scripts = scripts[:PageSize]
		page.NextCursor = page.Scripts[PageSize-1].ID.String()
	}
	if page.Scripts == nil {
		page.Scripts = []models.Script{}
	}
	return page, nil
}

func (s *ScriptService) Get(ctx context.Context, uid, id string) (*models.Script, error) {
	scriptID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	sc, err := s.scripts.Get(ctx, uid, scriptID)
	if err != nil {
		return nil, notFound(err)
	}
	return sc, nil
}

// Download renders one script in format (txt or pdf)
func (s *ScriptService) Download(ctx context.Context, uid, id, format string) (*Attachment, error) {
	f, err := export.ParseFormat(format)
	if err != nil || f == export.FormatExcel {
		return nil, fmt.Errorf("%w: format must be txt or pdf", ErrInvalidRequest)
	}
	sc, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	doc := &export.Document{
		Title: scriptTitle(sc),
		Fields: []export.Field{
			{Label: "Niche", Value: sc.Niche},
			{Label: "Sub-category", Value: sc.SubCategory},
			{Label: "Followers", Value: sc.FollowerCount},
			{Label: "Tone", Value: sc.Tone},
			{Label: "Focus", Value: sc.MoreSpecific},
		},
		Body:      sc.Text,
		Sections:  script.Sections(sc.Text),
		CreatedAt: sc.CreatedAt,
	}
	body, err := s.exporter.Document(doc, f)
	if err != nil {
		return nil, err
	}
	return &Attachment{
		Name:        fmt.Sprintf("script-%s%s", sc.ID, f.Extension()),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}

// ExportLibrary renders uid's newest scripts matching query as a workbook
func (s *ScriptService) ExportLibrary(ctx context.Context, uid, query string) (*Attachment, error) {
	scripts, err := s.scripts.List(ctx, models.ScriptFilter{
		UserUID: uid,
		Query:   strings.TrimSpace(query),
		Limit:   ExportLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}

	table := &export.Table{
		Title:        "ReelScript library",
		Headers:      []string{"Created", "Niche", "Sub-category", "Followers", "Tone", "Length", "Script"},
		Rows:         make([][]interface{}, 0, len(scripts)),
		ColumnWidths: map[int]float64{0: 18, 1: 16, 2: 18, 6: 90},
	}
	for _, sc := range scripts {
		table.Rows = append(table.Rows, []interface{}{
			sc.CreatedAt.UTC().Format("2006-01-02 15:04"),
			sc.Niche,
			sc.SubCategory,
			sc.FollowerCount,
			sc.Tone,
			sc.Length,
			sc.Text,
		})
	}

	body, err := s.exporter.Table(table)
	if err != nil {
		return nil, err
	}
	return &Attachment{
		Name:        "scripts" + export.FormatExcel.Extension(),
		ContentType: export.FormatExcel.ContentType(),
		Body:        body,
	}, nil
}

func scriptTitle(sc *models.Script) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{sc.Niche, sc.SubCategory} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Video script"
	}
	return strings.Join(parts, " / ") + " script"
}
