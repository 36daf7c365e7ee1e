// Package store is the persistence façade over the Users, TaskList and ToDo
// collections. It performs no business validation; ids cross the boundary in
// external string form and are parsed here.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MajedBannouri/Taski/apperrors"
	"github.com/MajedBannouri/Taski/models"
)

// Collection names are preserved from the original deployment so the service
// can run against an existing database.
const (
	usersCollection     = "Users"
	taskListsCollection = "TaskList"
	todosCollection     = "ToDo"
)

// Mongo implements the repository over a Mongo database. The optional cache
// serves UserByID, which runs on every authenticated request.
type Mongo struct {
	users     *mongo.Collection
	taskLists *mongo.Collection
	todos     *mongo.Collection
	cache     *Cache
}

// NewMongo builds a repository. cache may be nil.
func NewMongo(db *mongo.Database, cache *Cache) *Mongo {
	return &Mongo{
		users:     db.Collection(usersCollection),
		taskLists: db.Collection(taskListsCollection),
		todos:     db.Collection(todosCollection),
		cache:     cache,
	}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "create email index", err)
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Wrap(apperrors.CodeMalformedID, "malformed id", err)
	}
	return oid, nil
}

func (s *Mongo) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	res, err := s.users.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, apperrors.Wrap(apperrors.CodeDuplicateEmail, "email already registered", err)
		}
		return models.User{}, apperrors.Wrap(apperrors.CodeInternal, "insert user", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *Mongo) UserByID(ctx context.Context, id string) (models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.User{}, err
	}
	if u, ok := s.cache.getUser(ctx, oid.Hex()); ok {
		return u, nil
	}
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return models.User{}, apperrors.Wrap(apperrors.CodeInternal, "find user", err)
	}
	s.cache.setUser(ctx, oid.Hex(), u)
	return u, nil
}

func (s *Mongo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return models.User{}, apperrors.Wrap(apperrors.CodeInternal, "find user by email", err)
	}
	return u, nil
}

func (s *Mongo) CreateTaskList(ctx context.Context, l models.TaskList) (models.TaskList, error) {
	res, err := s.taskLists.InsertOne(ctx, l)
	if err != nil {
		return models.TaskList{}, apperrors.Wrap(apperrors.CodeInternal, "insert task list", err)
	}
	l.ID = res.InsertedID.(primitive.ObjectID)
	return l, nil
}

func (s *Mongo) TaskListByID(ctx context.Context, id string) (models.TaskList, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.TaskList{}, err
	}
	var l models.TaskList
	if err := s.taskLists.FindOne(ctx, bson.M{"_id": oid}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.TaskList{}, apperrors.New(apperrors.CodeNotFound, "task list not found")
		}
		return models.TaskList{}, apperrors.Wrap(apperrors.CodeInternal, "find task list", err)
	}
	return l, nil
}

// TaskListsByMember returns the lists containing userID, oldest first.
func (s *Mongo) TaskListsByMember(ctx context.Context, userID string) ([]models.TaskList, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.taskLists.Find(ctx, bson.M{"userIds": oid}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "find task lists", err)
	}
	lists := []models.TaskList{}
	if err := cur.All(ctx, &lists); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "decode task lists", err)
	}
	return lists, nil
}

func (s *Mongo) RenameTaskList(ctx context.Context, id, title string) (models.TaskList, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.TaskList{}, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var l models.TaskList
	err = s.taskLists.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"title": title}},
		opts,
	).Decode(&l)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.TaskList{}, apperrors.New(apperrors.CodeNotFound, "task list not found")
		}
		return models.TaskList{}, apperrors.Wrap(apperrors.CodeInternal, "update task list", err)
	}
	return l, nil
}

func (s *Mongo) DeleteTaskList(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	res, err := s.taskLists.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeInternal, "delete task list", err)
	}
	return res.DeletedCount > 0, nil
}

// AddTaskListMember appends userID to the member set in a single atomic
// update. Adding an existing member is a no-op, which makes the operation
// idempotent without a read-check-write race.
func (s *Mongo) AddTaskListMember(ctx context.Context, listID, userID string) (models.TaskList, error) {
	oid, err := parseID(listID)
	if err != nil {
		return models.TaskList{}, err
	}
	uid, err := parseID(userID)
	if err != nil {
		return models.TaskList{}, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var l models.TaskList
	err = s.taskLists.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"userIds": uid}},
		opts,
	).Decode(&l)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.TaskList{}, apperrors.New(apperrors.CodeNotFound, "task list not found")
		}
		return models.TaskList{}, apperrors.Wrap(apperrors.CodeInternal, "add task list member", err)
	}
	return l, nil
}

func (s *Mongo) CreateToDo(ctx context.Context, t models.ToDo) (models.ToDo, error) {
	res, err := s.todos.InsertOne(ctx, t)
	if err != nil {
		return models.ToDo{}, apperrors.Wrap(apperrors.CodeInternal, "insert todo", err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

func (s *Mongo) ToDoByID(ctx context.Context, id string) (models.ToDo, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.ToDo{}, err
	}
	var t models.ToDo
	if err := s.todos.FindOne(ctx, bson.M{"_id": oid}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ToDo{}, apperrors.New(apperrors.CodeNotFound, "todo not found")
		}
		return models.ToDo{}, apperrors.Wrap(apperrors.CodeInternal, "find todo", err)
	}
	return t, nil
}

// ToDosByTaskList returns a list's todos in insertion order.
func (s *Mongo) ToDosByTaskList(ctx context.Context, listID string) ([]models.ToDo, error) {
	oid, err := parseID(listID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.todos.Find(ctx, bson.M{"taskListId": oid}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "find todos", err)
	}
	todos := []models.ToDo{}
	if err := cur.All(ctx, &todos); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "decode todos", err)
	}
	return todos, nil
}

// UpdateToDo applies a partial update; only non-nil fields change.
func (s *Mongo) UpdateToDo(ctx context.Context, id string, content *string, isCompleted *bool) (models.ToDo, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.ToDo{}, err
	}
	set := bson.M{}
	if content != nil {
		set["content"] = *content
	}
	if isCompleted != nil {
		set["isCompleted"] = *isCompleted
	}
	if len(set) == 0 {
		return s.ToDoByID(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.ToDo
	err = s.todos.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ToDo{}, apperrors.New(apperrors.CodeNotFound, "todo not found")
		}
		return models.ToDo{}, apperrors.Wrap(apperrors.CodeInternal, "update todo", err)
	}
	return t, nil
}

func (s *Mongo) DeleteToDo(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	res, err := s.todos.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeInternal, "delete todo", err)
	}
	return res.DeletedCount > 0, nil
}

// DeleteToDosByTaskList removes every todo under a list. Used by the task
// list cascade delete.
func (s *Mongo) DeleteToDosByTaskList(ctx context.Context, listID string) (int64, error) {
	oid, err := parseID(listID)
	if err != nil {
		return 0, err
	}
	res, err := s.todos.DeleteMany(ctx, bson.M{"taskListId": oid})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, "delete todos", err)
	}
	return res.DeletedCount, nil
}
