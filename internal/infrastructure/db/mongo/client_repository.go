package mongo

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

const clientsCollection = "clients"

type MongoClientRepository struct {
	coll *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *MongoClientRepository {
	return &MongoClientRepository{coll: db.Collection(clientsCollection)}
}

type mongoClient struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	CorporateReason string             `bson:"corporate_reason"`
	CNPJ            string             `bson:"cnpj"`
	Name            string             `bson:"name"`
	Status          string             `bson:"status"`
	ConectarPlus    bool               `bson:"conectar_plus"`
	AdminUserID     string             `bson:"admin_user_id"`
	UserIDs         []string           `bson:"user_ids"`
	CreatedAt       int64              `bson:"created_at"`
	UpdatedAt       int64              `bson:"updated_at"`
}

func (r *MongoClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	doc := mongoClient{
		CorporateReason: client.CorporateReason,
		CNPJ:            client.CNPJ,
		Name:            client.Name,
		Status:          string(client.Status),
		ConectarPlus:    client.ConectarPlus,
		AdminUserID:     client.AdminUserID,
		UserIDs:         []string{},
		CreatedAt:       client.CreatedAt.Unix(),
		UpdatedAt:       client.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCNPJTaken
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}

	created := *client
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.UserIDs = []string{}
	return &created, nil
}

// FindByID looks a client up with viewer scoping applied inside the query:
// when viewerID is non-empty only records where the viewer is the admin-owner
// or a member can match, so unauthorized records are never fetched.
func (r *MongoClientRepository) FindByID(ctx context.Context, id, viewerID string) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}

	query := bson.M{"_id": oid}
	if viewerID != "" {
		query["$or"] = visibilityClause(viewerID)
	}

	var mc mongoClient
	if err := r.coll.FindOne(ctx, query).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoClientRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"cnpj": cnpj}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count clients by cnpj: %w", err)
	}
	return n > 0, nil
}

func (r *MongoClientRepository) List(ctx context.Context, filter ports.ListClientsFilter) ([]domain.Client, int64, error) {
	query := bson.M{}
	if filter.ViewerID != "" {
		query["$or"] = visibilityClause(filter.ViewerID)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.ConectarPlus != nil {
		query["conectar_plus"] = *filter.ConectarPlus
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		search := bson.A{
			bson.M{"name": pattern},
			bson.M{"cnpj": pattern},
		}
		if or, scoped := query["$or"]; scoped {
			// Both the visibility clause and the search are $or lists;
			// combine them with $and so neither widens the other.
			delete(query, "$or")
			query["$and"] = bson.A{bson.M{"$or": or}, bson.M{"$or": search}}
		} else {
			query["$or"] = search
		}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: clientSortField(filter.OrderBy), Value: sortDirection(filter.Order)}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoClient
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode clients: %w", err)
	}

	clients := make([]domain.Client, len(docs))
	for i, mc := range docs {
		clients[i] = *mc.toDomain()
	}
	return clients, total, nil
}

func (r *MongoClientRepository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(client.ID)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}

	update := bson.M{"$set": bson.M{
		"corporate_reason": client.CorporateReason,
		"cnpj":             client.CNPJ,
		"name":             client.Name,
		"status":           string(client.Status),
		"conectar_plus":    client.ConectarPlus,
		"updated_at":       client.UpdatedAt.Unix(),
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCNPJTaken
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrClientNotFound
	}
	return client, nil
}

func (r *MongoClientRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrClientNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *MongoClientRepository) AddUser(ctx context.Context, clientID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return domain.ErrClientNotFound
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$addToSet": bson.M{"user_ids": userID}})
	if err != nil {
		return fmt.Errorf("add client member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *MongoClientRepository) RemoveUser(ctx context.Context, clientID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return domain.ErrClientNotFound
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$pull": bson.M{"user_ids": userID}})
	if err != nil {
		return fmt.Errorf("remove client member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func visibilityClause(viewerID string) bson.A {
	return bson.A{
		bson.M{"admin_user_id": viewerID},
		bson.M{"user_ids": viewerID},
	}
}

func (mc mongoClient) toDomain() *domain.Client {
	userIDs := mc.UserIDs
	if userIDs == nil {
		userIDs = []string{}
	}
	return &domain.Client{
		ID:              mc.ID.Hex(),
		CorporateReason: mc.CorporateReason,
		CNPJ:            mc.CNPJ,
		Name:            mc.Name,
		Status:          domain.ClientStatus(mc.Status),
		ConectarPlus:    mc.ConectarPlus,
		AdminUserID:     mc.AdminUserID,
		UserIDs:         userIDs,
		CreatedAt:       unixToTime(mc.CreatedAt),
		UpdatedAt:       unixToTime(mc.UpdatedAt),
	}
}

func clientSortField(orderBy string) string {
	switch orderBy {
	case "name":
		return "name"
	case "corporateReason":
		return "corporate_reason"
	default:
		return "created_at"
	}
}
