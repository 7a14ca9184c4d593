package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chirper/domain/post"
	"chirper/utils"
)

type MongoStorage struct {
	Posts   *mongo.Collection
	Users   *mongo.Collection
	Likes   *mongo.Collection
	Follows *mongo.Collection
}

func NewMongoStorage(ctx context.Context, db *mongo.Database) (*MongoStorage, error) {
	m := &MongoStorage{
		Posts:   db.Collection("posts"),
		Users:   db.Collection("users"),
		Likes:   db.Collection("likes"),
		Follows: db.Collection("follows"),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureIndexes creates the unique constraints the toggle operations
// rely on instead of client-side locking, plus the compound sort index
// the feed pagination seeks on.
func (m *MongoStorage) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	_, err := m.Posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}
	_, err = m.Posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}},
	})
	if err != nil {
		return err
	}
	_, err = m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}
	_, err = m.Likes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "authorId", Value: 1}, {Key: "postId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}
	_, err = m.Follows.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "followerId", Value: 1}, {Key: "followedId", Value: 1}},
		Options: unique,
	})
	return err
}

func (m *MongoStorage) AddPost(ctx context.Context, p *post.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.Now()
	}
	for {
		if p.ID == "" {
			p.ID = utils.GeneratePostId()
		}
		_, err := m.Posts.InsertOne(ctx, *p)
		if mongo.IsDuplicateKeyError(err) {
			p.ID = ""
			continue
		}
		return err
	}
}

func (m *MongoStorage) GetPostByID(ctx context.Context, postID string) (*post.Post, error) {
	var p post.Post
	err := m.Posts.FindOne(ctx, bson.M{"id": postID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MongoStorage) ListPosts(ctx context.Context, filter PostFilter, cursor *post.Cursor, limit int) ([]post.Post, error) {
	clauses := bson.A{}
	if filter.AuthorID != "" {
		clauses = append(clauses, bson.M{"authorId": filter.AuthorID})
	}
	if filter.FollowedBy != "" {
		ids, err := m.FollowingIDs(ctx, filter.FollowedBy)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []post.Post{}, nil
		}
		clauses = append(clauses, bson.M{"authorId": bson.M{"$in": ids}})
	}
	if cursor != nil {
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"createdAt": bson.M{"$lt": cursor.CreatedAt}},
			bson.M{"createdAt": cursor.CreatedAt, "id": bson.M{"$lt": cursor.ID}},
		}})
	}
	query := bson.M{}
	if len(clauses) == 1 {
		query = clauses[0].(bson.M)
	} else if len(clauses) > 1 {
		query = bson.M{"$and": clauses}
	}
	opt := options.Find()
	opt.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}})
	opt.SetLimit(int64(limit))
	cur, err := m.Posts.Find(ctx, query, opt)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	arr := make([]post.Post, 0, limit)
	for cur.Next(ctx) {
		var p post.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		arr = append(arr, p)
	}
	return arr, cur.Err()
}

// LikeStates runs one aggregation over the likes collection: group by
// post, count rows, and mark whether any row belongs to the viewer.
func (m *MongoStorage) LikeStates(ctx context.Context, postIDs []string, viewerID string) (map[string]LikeState, error) {
	states := make(map[string]LikeState, len(postIDs))
	for _, id := range postIDs {
		states[id] = LikeState{}
	}
	if len(postIDs) == 0 {
		return states, nil
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"postId": bson.M{"$in": postIDs}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$postId",
			"count": bson.M{"$sum": 1},
			"mine": bson.M{"$max": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$authorId", viewerID}}, 1, 0},
			}},
		}}},
	}
	cur, err := m.Likes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
			Mine  int    `bson:"mine"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		states[row.ID] = LikeState{
			Count:     row.Count,
			LikedByMe: viewerID != "" && row.Mine > 0,
		}
	}
	return states, cur.Err()
}

func (m *MongoStorage) EnsureUser(ctx context.Context, userID string) error {
	opt := options.Update().SetUpsert(true)
	_, err := m.Users.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$setOnInsert": bson.M{"id": userID}},
		opt)
	return err
}

func (m *MongoStorage) InsertLike(ctx context.Context, authorID, postID string) error {
	_, err := m.Likes.InsertOne(ctx, bson.M{"authorId": authorID, "postId": postID})
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyLiked
	}
	return err
}

func (m *MongoStorage) DeleteLike(ctx context.Context, authorID, postID string) error {
	_, err := m.Likes.DeleteOne(ctx, bson.M{"authorId": authorID, "postId": postID})
	return err
}

func (m *MongoStorage) HasLike(ctx context.Context, authorID, postID string) (bool, error) {
	err := m.Likes.FindOne(ctx, bson.M{"authorId": authorID, "postId": postID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *MongoStorage) AddFollow(ctx context.Context, followerID, followedID string) error {
	_, err := m.Follows.InsertOne(ctx, bson.M{"followerId": followerID, "followedId": followedID})
	if mongo.IsDuplicateKeyError(err) {
		// edge already present, same outcome
		return nil
	}
	return err
}

func (m *MongoStorage) RemoveFollow(ctx context.Context, followerID, followedID string) error {
	_, err := m.Follows.DeleteOne(ctx, bson.M{"followerId": followerID, "followedId": followedID})
	return err
}

func (m *MongoStorage) HasFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	err := m.Follows.FindOne(ctx, bson.M{"followerId": followerID, "followedId": followedID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *MongoStorage) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return m.followEdgeIDs(ctx, bson.M{"followedId": userID}, "followerId")
}

func (m *MongoStorage) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return m.followEdgeIDs(ctx, bson.M{"followerId": userID}, "followedId")
}

func (m *MongoStorage) followEdgeIDs(ctx context.Context, filter bson.M, field string) ([]string, error) {
	cur, err := m.Follows.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	ids := make([]string, 0)
	for cur.Next(ctx) {
		var edge struct {
			FollowerID string `bson:"followerId"`
			FollowedID string `bson:"followedId"`
		}
		if err := cur.Decode(&edge); err != nil {
			return nil, err
		}
		if field == "followerId" {
			ids = append(ids, edge.FollowerID)
		} else {
			ids = append(ids, edge.FollowedID)
		}
	}
	return ids, cur.Err()
}

func (m *MongoStorage) ProfileCounts(ctx context.Context, userID string) (Counts, error) {
	followers, err := m.Follows.CountDocuments(ctx, bson.M{"followedId": userID})
	if err != nil {
		return Counts{}, err
	}
	follows, err := m.Follows.CountDocuments(ctx, bson.M{"followerId": userID})
	if err != nil {
		return Counts{}, err
	}
	posts, err := m.Posts.CountDocuments(ctx, bson.M{"authorId": userID})
	if err != nil {
		return Counts{}, err
	}
	return Counts{
		Followers: int(followers),
		Follows:   int(follows),
		Posts:     int(posts),
	}, nil
}
