package ingest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shenikar/safe_route_system/internal/ingest/mocks"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const sampleCSV = "\ufeffCase Number,Location,murder,rape,gangrape,robbery,theft,assualt murders,sexual harassement,totalcrime,Date,Crime Type,Latitude,Longitude\n" +
	"DL-001,Saket,1,0,0,2,3,1,0,7,2021-05-01,Robbery,28.5245,77.2066\n" +
	"DL-002,Unknown,0,0,0,0,1,0,0,1,,Theft,,\n" +
	"DL-003,Rohini,0,1,0,0,\"1,000\",0,2,1003,01/02/2022,Theft,28.7041,77.1025\n"

func TestRowToIncident(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	row, err := reader.Next()
	require.NoError(t, err)
	incident, err := RowToIncident(row, now)
	require.NoError(t, err)

	assert.Equal(t, models.Point{Lat: 28.5245, Lng: 77.2066}, incident.Location)
	assert.Equal(t, models.SourceHistorical, incident.Source)
	// 1*5 + 2*3 + 3*1, assault murders не учитываются
	assert.Equal(t, 14.0, incident.Severity)
	assert.Equal(t, "DL-001", incident.ExternalRef)
	assert.Equal(t, "Robbery", incident.Description)
	require.NotNil(t, incident.OccurredAt)
	assert.Equal(t, time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), *incident.OccurredAt)
	assert.Equal(t, now, incident.CreatedAt)

	row, err = reader.Next()
	require.NoError(t, err)
	_, err = RowToIncident(row, now)
	assert.ErrorIs(t, err, ErrQuarantined)

	row, err = reader.Next()
	require.NoError(t, err)
	incident, err = RowToIncident(row, now)
	require.NoError(t, err)
	// 1*4 + 1000*1 + 2*2
	assert.Equal(t, 1008.0, incident.Severity)
}

func TestImporter_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := mocks.NewMockIncidentWriter(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	var appended []models.Incident
	writer.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, incidents ...models.Incident) error {
			appended = append(appended, incidents...)
			return nil
		}).Times(2)

	importer := NewImporter(writer, logger, 1)
	stats, err := importer.Import(context.Background(), strings.NewReader(sampleCSV))

	require.NoError(t, err)
	assert.Equal(t, ImportStats{Imported: 2, Quarantined: 1}, stats)
	require.Len(t, appended, 2)
	assert.Equal(t, "DL-003", appended[1].ExternalRef)
}

func TestImporter_WriterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := mocks.NewMockIncidentWriter(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	writer.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("connection refused")).Times(1)

	stats, err := NewImporter(writer, logger, 10).Import(context.Background(), strings.NewReader(sampleCSV))

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to append batch")
	assert.Equal(t, 0, stats.Imported)
}
