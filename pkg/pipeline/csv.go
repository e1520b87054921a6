package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/molpic/molpic/pkg/chem"
	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/render"
	"github.com/molpic/molpic/pkg/render/layout"
	"github.com/molpic/molpic/pkg/resolve"
)

// ReportName is the file name of the batch report written into the output
// directory.
const ReportName = "molpic_report.csv"

// BatchOptions configures a CSV batch run.
type BatchOptions struct {
	// SmilesColumn and NameColumn are the CSV header names to read from.
	// A row's SMILES cell wins over its name cell when both are present.
	SmilesColumn string
	NameColumn   string

	// OutDir receives one image per row plus the report.
	OutDir string

	// Format selects the per-row image encoding.
	Format render.Format

	// Width and Height size each per-row image.
	Width, Height float64

	HideHydrogens bool

	// MakePanels additionally chunks the successful rows into numbered
	// grid figures of PanelRows x PanelCols cells.
	MakePanels       bool
	PanelRows        int
	PanelCols        int
	PanelTitlePrefix string

	// Captions writes a caption text file next to each panel.
	Captions bool

	// OrderBy is applied to the successful rows before panel chunking.
	OrderBy layout.Ordering

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. Idempotent.
func (o *BatchOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.SmilesColumn == "" {
		o.SmilesColumn = "smiles"
	}
	if o.NameColumn == "" {
		o.NameColumn = "name"
	}
	if o.OutDir == "" {
		o.OutDir = "molpic_out"
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if !render.ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be png or svg)", o.Format)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.PanelRows == 0 {
		o.PanelRows = 2
	}
	if o.PanelCols == 0 {
		o.PanelCols = 3
	}
	if o.PanelRows < 0 || o.PanelCols < 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "panel grid rows/cols must be positive, got %dx%d", o.PanelRows, o.PanelCols)
	}
	if o.PanelTitlePrefix == "" {
		o.PanelTitlePrefix = "Panel"
	}
	if o.OrderBy != "" && !layout.ValidOrderings[o.OrderBy] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid ordering %q (must be input or name)", o.OrderBy)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// ReportRow is one line of the batch report.
type ReportRow struct {
	Row     int
	Query   string
	Legend  string
	OK      bool
	Out     string
	Source  string
	CID     int
	Message string
}

// BatchResult contains the outputs of a CSV batch run.
type BatchResult struct {
	Report     []ReportRow
	ReportPath string
	Images     []string // Per-row image paths, successes only
	Panels     []string // Grid figure paths when MakePanels is set
	Stats      Stats
}

// ExecuteBatch reads a CSV of compounds and renders one image per row into
// the output directory, writing a report alongside. When every row fails
// the report is still written and the run fails with ALL_FAILED.
func (r *Runner) ExecuteBatch(ctx context.Context, input io.Reader, opts BatchOptions) (*BatchResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output directory %q", opts.OutDir)
	}

	rows, smilesIdx, nameIdx, err := readBatchCSV(input, opts.SmilesColumn, opts.NameColumn)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Stats: Stats{Requested: len(rows)}}
	var kept []*resolve.Structure

	for i, row := range rows {
		report := r.processBatchRow(ctx, i, row, smilesIdx, nameIdx, opts)
		result.Report = append(result.Report, report)
		if !report.OK {
			result.Stats.Failed++
			continue
		}
		result.Stats.Rendered++
		result.Images = append(result.Images, report.Out)
		kept = append(kept, &resolve.Structure{
			Query:    report.Query,
			Label:    report.Legend,
			Source:   report.Source,
			CID:      report.CID,
			Molecule: row.molecule,
		})
	}

	result.ReportPath = filepath.Join(opts.OutDir, ReportName)
	if err := writeReport(result.ReportPath, result.Report); err != nil {
		return nil, err
	}
	r.Logger.Info("wrote batch report",
		"path", result.ReportPath,
		"rows", len(result.Report),
		"rendered", result.Stats.Rendered,
		"failed", result.Stats.Failed)

	if result.Stats.Rendered == 0 && len(rows) > 0 {
		return result, errors.New(errors.ErrCodeAllFailed, "none of the %d rows could be rendered", len(rows))
	}

	if opts.MakePanels && len(kept) > 0 {
		if err := r.writePanels(kept, result, opts); err != nil {
			return result, err
		}
	}

	return result, nil
}

// batchRow is one parsed CSV record; molecule is filled in after a
// successful resolution so panel rendering can reuse it.
type batchRow struct {
	fields   []string
	molecule *chem.Molecule
}

func (r *Runner) processBatchRow(ctx context.Context, i int, row *batchRow, smilesIdx, nameIdx int, opts BatchOptions) ReportRow {
	rawSMILES := cell(row.fields, smilesIdx)
	rawName := cell(row.fields, nameIdx)

	query := rawSMILES
	req := Request{Query: rawSMILES, Kind: resolve.KindSMILES}
	if query == "" {
		query = rawName
		req = Request{Query: rawName, Kind: resolve.KindName}
	}
	if query == "" {
		return ReportRow{Row: i, Message: "empty"}
	}

	legend := rawName
	if legend == "" {
		legend = query
	}
	req.Label = legend

	report := ReportRow{Row: i, Query: query, Legend: legend}

	st, err := r.Resolver.Resolve(ctx, req)
	if err != nil {
		report.Message = errors.UserMessage(err)
		r.Logger.Warn("skipping row", "row", i, "query", query, "err", err)
		return report
	}
	report.Source = st.Source
	report.CID = st.CID

	style := layout.Style{HideHydrogens: opts.HideHydrogens}
	d, err := layout.FromMolecule(st.Molecule, style, legend, opts.Width, opts.Height)
	if err != nil {
		report.Message = errors.UserMessage(err)
		return report
	}

	var buf bytes.Buffer
	if err := render.Single(&buf, d, opts.Format); err != nil {
		report.Message = errors.UserMessage(err)
		return report
	}

	out := filepath.Join(opts.OutDir, fmt.Sprintf("%04d_%s.%s", i, safeLabel(legend), opts.Format))
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		report.Message = err.Error()
		return report
	}

	report.OK = true
	report.Out = out
	row.molecule = st.Molecule
	return report
}

// sortStructuresByLabel applies the name ordering policy: stable sort on
// the lowercased label so duplicate labels keep their input order.
func sortStructuresByLabel(structures []*resolve.Structure) {
	sort.SliceStable(structures, func(i, j int) bool {
		return strings.ToLower(structures[i].Label) < strings.ToLower(structures[j].Label)
	})
}

// writePanels chunks the successful structures into numbered grid figures.
func (r *Runner) writePanels(kept []*resolve.Structure, result *BatchResult, opts BatchOptions) error {
	if opts.OrderBy == layout.OrderByName {
		structures := make([]*resolve.Structure, len(kept))
		copy(structures, kept)
		kept = structures
		sortStructuresByLabel(kept)
	}

	capacity := opts.PanelRows * opts.PanelCols
	for start, index := 0, 1; start < len(kept); start, index = start+capacity, index+1 {
		chunk := kept[start:min(start+capacity, len(kept))]
		title := fmt.Sprintf("%s %03d", opts.PanelTitlePrefix, index)

		var drawings []layout.Drawing
		style := layout.Style{HideHydrogens: opts.HideHydrogens}
		for _, st := range chunk {
			d, err := layout.FromMolecule(st.Molecule, style, st.Label, DefaultPanelWidth, DefaultPanelHeight)
			if err != nil {
				continue
			}
			drawings = append(drawings, d)
		}
		if len(drawings) == 0 {
			continue
		}

		spec := layout.GridSpec{Rows: opts.PanelRows, Cols: opts.PanelCols, Title: title}
		grid, err := layout.Compose(drawings, spec)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := render.Grid(&buf, grid, opts.Format); err != nil {
			return err
		}

		out := filepath.Join(opts.OutDir, fmt.Sprintf("panel_%03d.%s", index, opts.Format))
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write panel %q", out)
		}
		result.Panels = append(result.Panels, out)

		if opts.Captions {
			captionPath := filepath.Join(opts.OutDir, fmt.Sprintf("panel_%03d_caption.txt", index))
			if err := WriteCaption(captionPath, title, grid.Legends()); err != nil {
				return err
			}
		}
		r.Logger.Info("wrote panel", "path", out, "compounds", len(drawings))
	}
	return nil
}

// readBatchCSV parses the header and records, locating the SMILES and name
// columns case-insensitively. At least one of the two must exist.
func readBatchCSV(input io.Reader, smilesCol, nameCol string) ([]*batchRow, int, int, error) {
	reader := csv.NewReader(input)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV header")
	}

	smilesIdx, nameIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case strings.ToLower(smilesCol):
			smilesIdx = i
		case strings.ToLower(nameCol):
			nameIdx = i
		}
	}
	if smilesIdx < 0 && nameIdx < 0 {
		return nil, 0, 0, errors.New(errors.ErrCodeInvalidInput,
			"need a %q or %q column, got %v", smilesCol, nameCol, header)
	}

	var rows []*batchRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV row %d", len(rows)+1)
		}
		rows = append(rows, &batchRow{fields: record})
	}
	return rows, smilesIdx, nameIdx, nil
}

// writeReport writes the batch report CSV.
func writeReport(path string, report []ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write report %q", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"row", "query", "legend", "ok", "out", "source", "cid", "message"}); err != nil {
		return err
	}
	for _, row := range report {
		cid := ""
		if row.CID != 0 {
			cid = strconv.Itoa(row.CID)
		}
		record := []string{
			strconv.Itoa(row.Row), row.Query, row.Legend,
			strconv.FormatBool(row.OK), row.Out, row.Source, cid, row.Message,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// cell returns a trimmed field, tolerating short records and absent columns.
func cell(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// safeLabel makes a legend usable as a file name fragment.
func safeLabel(legend string) string {
	s := strings.NewReplacer(" ", "_", "/", "_", string(filepath.Separator), "_").Replace(legend)
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
