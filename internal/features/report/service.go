package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/periljames/amo-portal-sub002/internal/features/importcommit"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/providers"
	"github.com/periljames/amo-portal-sub002/internal/registry"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportService interface {
	ExportBatchReport(ctx context.Context, batchID string) ([]byte, string, error)
}

type ReportServiceImpl struct {
	Provider providers.ImportProvider
	Batches  importcommit.BatchRepository
	Metrics  *metrics.Registry
	Logger   *zap.Logger
}

func NewReportService(
	provider providers.ImportProvider,
	batches importcommit.BatchRepository,
	reg *metrics.Registry,
	logger *zap.Logger,
) ReportService {
	return &ReportServiceImpl{
		Provider: provider,
		Batches:  batches,
		Metrics:  reg,
		Logger:   logger,
	}
}

// ExportBatchReport builds the audit workbook for one committed batch: a
// summary sheet with the batch bookkeeping and one sheet per snapshot listing
// every confirmed cell with its uploaded, proposed, and final values.
func (s *ReportServiceImpl) ExportBatchReport(ctx context.Context, batchID string) ([]byte, string, error) {
	batch, err := s.Batches.Get(ctx, batchID)
	if err != nil {
		return nil, "", fmt.Errorf("batch %s not found: %w", batchID, err)
	}

	snapshots, err := s.Provider.Snapshots(ctx, batchID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeSummarySheet(f, batch, len(snapshots)); err != nil {
		return nil, "", err
	}
	for i, snap := range snapshots {
		if err := s.writeChangesSheet(f, i, snap); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	s.Metrics.ReportsExported.Inc()
	s.Logger.Info("batch audit report exported",
		zap.String("batch_id", batchID),
		zap.Int("snapshots", len(snapshots)),
	)

	filename := fmt.Sprintf("import-batch-%s.xlsx", batchID)
	return buf.Bytes(), filename, nil
}

func (s *ReportServiceImpl) writeSummarySheet(f *excelize.File, batch *importcommit.ImportBatch, snapshotCount int) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Batch ID", batch.BatchID},
		{"Entity Type", string(batch.EntityType)},
		{"Aircraft", batch.AircraftID},
		{"Operator", batch.Operator},
		{"Mode", batch.Mode},
		{"Approved Rows", batch.ApprovedCount},
		{"Created", batch.Created},
		{"Updated", batch.Updated},
		{"Commit Attempts", batch.Attempts},
		{"Committed At", batch.CommittedAt},
		{"Snapshots", snapshotCount},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportServiceImpl) writeChangesSheet(f *excelize.File, index int, snap providers.Snapshot) error {
	sheet := fmt.Sprintf("Snapshot %d", index+1)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Row", "Field", "Uploaded", "Proposed", "Final", "Decision"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	rowNumbers := make([]int, 0, len(snap.DiffMap))
	for n := range snap.DiffMap {
		rowNumbers = append(rowNumbers, n)
	}
	sort.Ints(rowNumbers)

	line := 2
	for _, n := range rowNumbers {
		fields := make([]string, 0, len(snap.DiffMap[n]))
		for field := range snap.DiffMap[n] {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			cell := snap.DiffMap[n][field]
			record := []interface{}{n, registry.LabelOf(field), cell.Original, cell.Proposed, cell.Final, cell.Decision}
			anchor, err := excelize.CoordinatesToCellName(1, line)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, anchor, &record); err != nil {
				return err
			}
			line++
		}
	}
	return nil
}
