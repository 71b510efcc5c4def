package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"placementprep/interview/internal/models"
	"placementprep/interview/internal/repositories"
)

// SessionRepo wraps the interview-sessions collection.
type SessionRepo struct{ col *mongo.Collection }

// NewSessionRepo resolves the collection and ensures the indexes the sweeper
// and ownership checks rely on.
func NewSessionRepo(c *Client, dbName, colName string) (*SessionRepo, error) {
	db, err := c.DB(dbName)
	if err != nil {
		return nil, err
	}

	col := db.Collection(colName)
	r := &SessionRepo{col: col}

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "started_at", Value: 1}}},
	})

	return r, nil
}

func (r *SessionRepo) Create(ctx context.Context, session *models.InterviewSession) error {
	session.Version = 1
	_, err := r.col.InsertOne(ctx, session)
	return err
}

func (r *SessionRepo) FindByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Update replaces the document, guarded by the version the session was loaded
// at. Zero matches means either the id vanished or another writer won the
// race; both surface as ErrVersionConflict so the caller retries from a fresh
// load. On success the in-memory version is bumped to mirror the stored one.
func (r *SessionRepo) Update(ctx context.Context, session *models.InterviewSession) error {
	loadedVersion := session.Version
	session.Version = loadedVersion + 1

	result, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": session.ID, "version": loadedVersion},
		session,
	)
	if err != nil {
		session.Version = loadedVersion
		return err
	}
	if result.MatchedCount == 0 {
		session.Version = loadedVersion
		return repositories.ErrVersionConflict
	}
	return nil
}

func (r *SessionRepo) FindExpired(ctx context.Context, now time.Time) ([]models.InterviewSession, error) {
	filter := bson.M{
		"status": models.StatusInProgress,
		"$expr": bson.M{
			"$lt": bson.A{
				bson.M{"$add": bson.A{
					"$started_at",
					bson.M{"$multiply": bson.A{"$time_limit_minutes", 60000}},
				}},
				now,
			},
		},
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
