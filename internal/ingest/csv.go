package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Колонки CSV-набора данных о преступлениях по категориям (с опечатками исходного файла)
var csvCategoryColumns = map[string]string{
	CategoryMurder:           "murder",
	CategoryRape:             "rape",
	CategoryGangrape:         "gangrape",
	CategoryRobbery:          "robbery",
	CategoryTheft:            "theft",
	CategoryAssaultMurders:   "assualt murders",
	CategorySexualHarassment: "sexual harassement",
}

var csvDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02-01-2006",
}

// IncidentWriter определяет контракт для добавления инцидентов в хранилище (только append)
type IncidentWriter interface {
	Append(ctx context.Context, incidents ...models.Incident) error
}

// CSVReader читает строки CSV как отображение "заголовок -> значение"
type CSVReader struct {
	reader *csv.Reader
	header []string
}

// NewCSVReader читает заголовок и возвращает ридер строк
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}
	return &CSVReader{reader: reader, header: header}, nil
}

// Next возвращает следующую строку или io.EOF
func (r *CSVReader) Next() (map[string]string, error) {
	record, err := r.reader.Read()
	if err != nil {
		return nil, err
	}
	row := make(map[string]string, len(r.header))
	for i, name := range r.header {
		if i < len(record) {
			row[name] = strings.TrimSpace(record[i])
		}
	}
	return row, nil
}

// RowToIncident отображает строку CSV в исторический инцидент
func RowToIncident(row map[string]string, now time.Time) (models.Incident, error) {
	caseNumber := row["Case Number"]

	lat, okLat := parseNumber(row["Latitude"])
	lng, okLng := parseNumber(row["Longitude"])
	if !okLat || !okLng {
		return models.Incident{}, quarantine(caseNumber, errors.New("missing coordinates"))
	}
	location := models.Point{Lat: lat, Lng: lng}
	if err := checkPoint(location); err != nil {
		return models.Incident{}, quarantine(caseNumber, err)
	}

	counts := make(map[string]float64)
	for category, column := range csvCategoryColumns {
		if v, ok := parseNumber(row[column]); ok && v > 0 {
			counts[category] = v
		}
	}

	incident := models.Incident{
		ID:             uuid.New(),
		Location:       location,
		Severity:       Severity(counts),
		Source:         models.SourceHistorical,
		Description:    firstNonEmpty(row["Crime Type"], row["Comments"], row["Location"]),
		ExternalRef:    caseNumber,
		OccurredAt:     parseDate(row["Date"]),
		CreatedAt:      now,
		MappingVersion: MappingVersionCanonical,
	}
	if len(counts) > 0 {
		incident.Categories = counts
	}
	return incident, nil
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ImportStats - итог импорта
type ImportStats struct {
	Imported    int
	Quarantined int
}

// Importer загружает CSV пачками через IncidentWriter
type Importer struct {
	writer    IncidentWriter
	logger    *logrus.Logger
	batchSize int
	now       func() time.Time
}

// NewImporter создает импортер; batchSize <= 0 заменяется на 500
func NewImporter(writer IncidentWriter, logger *logrus.Logger, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Importer{
		writer:    writer,
		logger:    logger,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Import читает весь CSV. Строки, не прошедшие нормализацию, пропускаются и считаются отдельно.
func (im *Importer) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	log := im.logger.WithFields(logrus.Fields{
		"service": "ingest",
		"method":  "Import",
	})

	var stats ImportStats
	reader, err := NewCSVReader(r)
	if err != nil {
		return stats, err
	}

	now := im.now().UTC()
	batch := make([]models.Incident, 0, im.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := im.writer.Append(ctx, batch...); err != nil {
			return fmt.Errorf("failed to append batch: %w", err)
		}
		stats.Imported += len(batch)
		log.WithField("imported", stats.Imported).Debug("Batch appended")
		batch = batch[:0]
		return nil
	}

	for line := 2; ; line++ {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		incident, err := RowToIncident(row, now)
		if err != nil {
			stats.Quarantined++
			log.WithError(err).WithField("line", line).Warn("Row quarantined")
			continue
		}

		batch = append(batch, incident)
		if len(batch) >= im.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	log.WithFields(logrus.Fields{
		"imported":    stats.Imported,
		"quarantined": stats.Quarantined,
	}).Info("CSV import completed")
	return stats, nil
}
