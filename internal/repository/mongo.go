package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/ingest"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const duplicateKeyCode = 11000

// geoJSONPoint - GeoJSON-точка, coordinates: [lng, lat]
type geoJSONPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// incidentDocument покрывает все исторические формы документов коллекции
type incidentDocument struct {
	ID             bson.RawValue      `bson:"_id,omitempty"`
	Loc            *geoJSONPoint      `bson:"loc,omitempty"`
	LocationCoords map[string]float64 `bson:"location_coords,omitempty"`
	SeverityScore  *float64           `bson:"severityScore,omitempty"`
	Counts         map[string]float64 `bson:"counts,omitempty"`
	Stats          map[string]float64 `bson:"stats,omitempty"`
	Source         string             `bson:"source,omitempty"`
	DataSource     string             `bson:"data_source,omitempty"`
	Date           *time.Time         `bson:"date,omitempty"`
	CreatedAt      *time.Time         `bson:"createdAt,omitempty"`
	Comments       string             `bson:"comments,omitempty"`
	CaseNumber     string             `bson:"caseNumber,omitempty"`
	MappingVersion *int               `bson:"mappingVersion,omitempty"`
}

// canonicalDocument - форма документа, которую записывает этот сервис
type canonicalDocument struct {
	ID             string             `bson:"_id"`
	Loc            geoJSONPoint       `bson:"loc"`
	SeverityScore  float64            `bson:"severityScore"`
	Counts         map[string]float64 `bson:"counts,omitempty"`
	Source         string             `bson:"source"`
	Date           *time.Time         `bson:"date,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	Comments       string             `bson:"comments,omitempty"`
	CaseNumber     string             `bson:"caseNumber,omitempty"`
	MappingVersion int                `bson:"mappingVersion"`
}

// MongoIncidentRepository - хранилище инцидентов в MongoDB со смешанными формами документов
type MongoIncidentRepository struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

// NewMongoIncidentRepository создает новый MongoIncidentRepository
func NewMongoIncidentRepository(collection *mongo.Collection, logger *logrus.Logger) *MongoIncidentRepository {
	return &MongoIncidentRepository{
		collection: collection,
		logger:     logger,
	}
}

// EnsureIndexes создает 2dsphere-индекс по loc и индекс по createdAt
func (r *MongoIncidentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "loc", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("repository: %w: failed to create indexes: %w", service.ErrStoreUnavailable, err)
	}
	return nil
}

// FindNear возвращает инциденты в радиусе от точки через $nearSphere
func (r *MongoIncidentRepository) FindNear(ctx context.Context, center models.Point, radiusMeters float64, limit int) ([]models.Incident, error) {
	incidents, err := r.find(ctx, nearFilter(center, radiusMeters), options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("repository: %w: failed to query incidents near point: %w", service.ErrStoreUnavailable, err)
	}

	return withinRadius(center, radiusMeters, incidents), nil
}

// nearFilter строит запрос $nearSphere; $maxDistance задается на сфере MongoDB
func nearFilter(center models.Point, radiusMeters float64) bson.M {
	return bson.M{
		"loc": bson.M{
			"$nearSphere": bson.M{
				"$geometry":    bson.M{"type": "Point", "coordinates": []float64{center.Lng, center.Lat}},
				"$maxDistance": queryRadius(radiusMeters, mongoEarthRadiusMeters),
			},
		},
	}
}

// FindInBox ищет инциденты в прямоугольнике по обеим формам координат, не используя геоиндекс
func (r *MongoIncidentRepository) FindInBox(ctx context.Context, bounds geo.Bounds, limit int) ([]models.Incident, error) {
	latRange := bson.M{"$gte": bounds.MinLat, "$lte": bounds.MaxLat}
	lngRange := bson.M{"$gte": bounds.MinLng, "$lte": bounds.MaxLng}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"loc.coordinates.0": lngRange, "loc.coordinates.1": latRange},
			bson.M{"location_coords.latitude": latRange, "location_coords.longitude": lngRange},
			bson.M{"location_coords.lat": latRange, "location_coords.lng": lngRange},
		},
	}

	incidents, err := r.find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("repository: %w: failed to query incidents in box: %w", service.ErrStoreUnavailable, err)
	}
	return incidents, nil
}

// Append вставляет инциденты в канонической форме. Дубликаты _id пропускаются.
func (r *MongoIncidentRepository) Append(ctx context.Context, incidents ...models.Incident) error {
	if len(incidents) == 0 {
		return nil
	}

	docs := make([]any, 0, len(incidents))
	for _, incident := range incidents {
		docs = append(docs, canonicalDocument{
			ID: incident.ID.String(),
			Loc: geoJSONPoint{
				Type:        "Point",
				Coordinates: []float64{incident.Location.Lng, incident.Location.Lat},
			},
			SeverityScore:  incident.Severity,
			Counts:         incident.Categories,
			Source:         string(incident.Source),
			Date:           incident.OccurredAt,
			CreatedAt:      incident.CreatedAt,
			Comments:       incident.Description,
			CaseNumber:     incident.ExternalRef,
			MappingVersion: incident.MappingVersion,
		})
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicateKeys(err) {
		return fmt.Errorf("repository: %w: failed to append incidents: %w", service.ErrStoreUnavailable, err)
	}
	return nil
}

// HeatmapPoints возвращает координаты последних инцидентов
func (r *MongoIncidentRepository) HeatmapPoints(ctx context.Context, limit int) ([]models.Point, error) {
	opts := options.Find().
		SetProjection(bson.M{"loc": 1, "location_coords": 1, "source": 1, "data_source": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	incidents, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("repository: %w: failed to query heatmap points: %w", service.ErrStoreUnavailable, err)
	}

	points := make([]models.Point, 0, len(incidents))
	for _, incident := range incidents {
		points = append(points, incident.Location)
	}
	return points, nil
}

// Ping проверяет доступность MongoDB
func (r *MongoIncidentRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *MongoIncidentRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Incident, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var incidents []models.Incident
	for cursor.Next(ctx) {
		var doc incidentDocument
		if err := cursor.Decode(&doc); err != nil {
			r.logger.WithError(err).Debug("Skipping undecodable incident document")
			continue
		}
		incident, err := ingest.Normalize(doc.legacyRecord())
		if err != nil {
			r.logger.WithError(err).Debug("Skipping incident document")
			continue
		}
		if doc.MappingVersion != nil {
			incident.MappingVersion = *doc.MappingVersion
		}
		incidents = append(incidents, incident)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return incidents, nil
}

func (d incidentDocument) legacyRecord() ingest.LegacyRecord {
	rec := ingest.LegacyRecord{
		ID:             rawID(d.ID),
		LocationCoords: d.LocationCoords,
		SeverityScore:  d.SeverityScore,
		Counts:         d.Counts,
		Source:         d.Source,
		DataSource:     d.DataSource,
		Date:           d.Date,
		CreatedAt:      d.CreatedAt,
		Description:    d.Comments,
		ExternalRef:    d.CaseNumber,
	}
	if len(rec.Counts) == 0 {
		rec.Counts = d.Stats
	}
	if d.Loc != nil {
		rec.Coordinates = d.Loc.Coordinates
	}
	return rec
}

func rawID(v bson.RawValue) string {
	switch v.Type {
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.String:
		return v.StringValue()
	default:
		return ""
	}
}

func onlyDuplicateKeys(err error) bool {
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil {
		return false
	}
	for _, writeErr := range bulkErr.WriteErrors {
		if writeErr.Code != duplicateKeyCode {
			return false
		}
	}
	return true
}
