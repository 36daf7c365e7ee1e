// Package api implements the GraphQL query and mutation resolvers. Every
// operation except signUp/signIn requires an authenticated user, and every
// list-scoped operation additionally requires membership of the affected
// task list. Non-members see NOT_FOUND rather than a distinct error so the
// API does not reveal which ids exist.
package api

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MajedBannouri/Taski/apperrors"
	"github.com/MajedBannouri/Taski/auth"
	"github.com/MajedBannouri/Taski/models"
)

// Store is the repository surface the resolvers depend on. *store.Mongo
// implements it; tests substitute an in-memory fake.
type Store interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)

	CreateTaskList(ctx context.Context, l models.TaskList) (models.TaskList, error)
	TaskListByID(ctx context.Context, id string) (models.TaskList, error)
	TaskListsByMember(ctx context.Context, userID string) ([]models.TaskList, error)
	RenameTaskList(ctx context.Context, id, title string) (models.TaskList, error)
	DeleteTaskList(ctx context.Context, id string) (bool, error)
	AddTaskListMember(ctx context.Context, listID, userID string) (models.TaskList, error)

	CreateToDo(ctx context.Context, t models.ToDo) (models.ToDo, error)
	ToDoByID(ctx context.Context, id string) (models.ToDo, error)
	ToDosByTaskList(ctx context.Context, listID string) ([]models.ToDo, error)
	UpdateToDo(ctx context.Context, id string, content *string, isCompleted *bool) (models.ToDo, error)
	DeleteToDo(ctx context.Context, id string) (bool, error)
	DeleteToDosByTaskList(ctx context.Context, listID string) (int64, error)
}

// Resolver is the GraphQL root resolver.
type Resolver struct {
	Store  Store
	Tokens *auth.TokenService
	Now    func() time.Time // nil means time.Now
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Resolver) requireUser(ctx context.Context) (*models.User, error) {
	user := auth.UserFrom(ctx)
	if user == nil {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "authentication required, please sign in")
	}
	return user, nil
}

// requireMember loads a task list and checks that the current user belongs
// to it. Absent lists and non-member access both fail NOT_FOUND.
func (r *Resolver) requireMember(ctx context.Context, listID string) (models.TaskList, *models.User, error) {
	user, err := r.requireUser(ctx)
	if err != nil {
		return models.TaskList{}, nil, err
	}
	list, err := r.Store.TaskListByID(ctx, listID)
	if err != nil {
		return models.TaskList{}, nil, err
	}
	if !list.HasMember(user.ID) {
		return models.TaskList{}, nil, apperrors.New(apperrors.CodeNotFound, "task list not found")
	}
	return list, user, nil
}

// requireToDoMember resolves a todo and checks membership of its owning list.
func (r *Resolver) requireToDoMember(ctx context.Context, todoID string) (models.ToDo, error) {
	user, err := r.requireUser(ctx)
	if err != nil {
		return models.ToDo{}, err
	}
	todo, err := r.Store.ToDoByID(ctx, todoID)
	if err != nil {
		return models.ToDo{}, err
	}
	list, err := r.Store.TaskListByID(ctx, todo.TaskListID.Hex())
	if err != nil {
		return models.ToDo{}, err
	}
	if !list.HasMember(user.ID) {
		return models.ToDo{}, apperrors.New(apperrors.CodeNotFound, "todo not found")
	}
	return todo, nil
}

// --- Query ---

func (r *Resolver) MyTaskLists(ctx context.Context) ([]*taskListResolver, error) {
	user, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	lists, err := r.Store.TaskListsByMember(ctx, user.ID.Hex())
	if err != nil {
		return nil, err
	}
	out := make([]*taskListResolver, 0, len(lists))
	for _, l := range lists {
		out = append(out, &taskListResolver{r: r, list: l})
	}
	return out, nil
}

func (r *Resolver) GetTaskList(ctx context.Context, args struct{ ID graphql.ID }) (*taskListResolver, error) {
	list, _, err := r.requireMember(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &taskListResolver{r: r, list: list}, nil
}

// --- Mutation: auth ---

type signUpInput struct {
	Email    string
	Password string
	Name     string
	Avatar   *string
}

type signInInput struct {
	Email    string
	Password string
}

func (r *Resolver) SignUp(ctx context.Context, args struct{ Input signUpInput }) (*authUserResolver, error) {
	in := args.Input
	_, err := r.Store.UserByEmail(ctx, in.Email)
	if err == nil {
		return nil, apperrors.New(apperrors.CodeDuplicateEmail, "email already registered")
	}
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "hash password", err)
	}
	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	// The unique email index backstops the lookup above under concurrent
	// signups; the store reports the violation as DUPLICATE_EMAIL.
	user, err = r.Store.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return r.authUser(user)
}

func (r *Resolver) SignIn(ctx context.Context, args struct{ Input signInInput }) (*authUserResolver, error) {
	in := args.Input
	user, err := r.Store.UserByEmail(ctx, in.Email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			// Same error as a wrong password, to avoid user enumeration.
			return nil, apperrors.New(apperrors.CodeInvalidCredentials, "invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(in.Password, user.Password) {
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, "invalid credentials")
	}
	return r.authUser(user)
}

func (r *Resolver) authUser(user models.User) (*authUserResolver, error) {
	token, err := r.Tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &authUserResolver{user: &userResolver{user}, token: token}, nil
}

// --- Mutation: task lists ---

func (r *Resolver) CreateTaskList(ctx context.Context, args struct{ Title string }) (*taskListResolver, error) {
	user, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	list, err := r.Store.CreateTaskList(ctx, models.TaskList{
		Title:     args.Title,
		CreatedAt: r.now().UTC(),
		UserIDs:   []primitive.ObjectID{user.ID},
	})
	if err != nil {
		return nil, err
	}
	return &taskListResolver{r: r, list: list}, nil
}

func (r *Resolver) UpdateTaskList(ctx context.Context, args struct {
	ID    graphql.ID
	Title string
}) (*taskListResolver, error) {
	if _, _, err := r.requireMember(ctx, string(args.ID)); err != nil {
		return nil, err
	}
	list, err := r.Store.RenameTaskList(ctx, string(args.ID), args.Title)
	if err != nil {
		return nil, err
	}
	return &taskListResolver{r: r, list: list}, nil
}

// DeleteTaskList removes a list and its todos. The two deletes are not
// transactional; todos go first so a crash in between cannot leave todos
// under a deleted list.
func (r *Resolver) DeleteTaskList(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	if _, _, err := r.requireMember(ctx, string(args.ID)); err != nil {
		return false, err
	}
	if _, err := r.Store.DeleteToDosByTaskList(ctx, string(args.ID)); err != nil {
		return false, err
	}
	deleted, err := r.Store.DeleteTaskList(ctx, string(args.ID))
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, apperrors.New(apperrors.CodeNotFound, "task list not found")
	}
	return true, nil
}

func (r *Resolver) AddUserToTaskList(ctx context.Context, args struct {
	TaskListID graphql.ID
	UserID     graphql.ID
}) (*taskListResolver, error) {
	if _, _, err := r.requireMember(ctx, string(args.TaskListID)); err != nil {
		return nil, err
	}
	list, err := r.Store.AddTaskListMember(ctx, string(args.TaskListID), string(args.UserID))
	if err != nil {
		return nil, err
	}
	return &taskListResolver{r: r, list: list}, nil
}

// --- Mutation: todos ---

func (r *Resolver) CreateToDo(ctx context.Context, args struct {
	Content    string
	TaskListID graphql.ID
}) (*todoResolver, error) {
	list, _, err := r.requireMember(ctx, string(args.TaskListID))
	if err != nil {
		return nil, err
	}
	todo, err := r.Store.CreateToDo(ctx, models.ToDo{
		Content:     args.Content,
		IsCompleted: false,
		TaskListID:  list.ID,
	})
	if err != nil {
		return nil, err
	}
	return &todoResolver{r: r, todo: todo}, nil
}

func (r *Resolver) UpdateToDo(ctx context.Context, args struct {
	ID          graphql.ID
	Content     *string
	IsCompleted *bool
}) (*todoResolver, error) {
	if _, err := r.requireToDoMember(ctx, string(args.ID)); err != nil {
		return nil, err
	}
	todo, err := r.Store.UpdateToDo(ctx, string(args.ID), args.Content, args.IsCompleted)
	if err != nil {
		return nil, err
	}
	return &todoResolver{r: r, todo: todo}, nil
}

func (r *Resolver) DeleteToDo(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	if _, err := r.requireToDoMember(ctx, string(args.ID)); err != nil {
		return false, err
	}
	deleted, err := r.Store.DeleteToDo(ctx, string(args.ID))
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, apperrors.New(apperrors.CodeNotFound, "todo not found")
	}
	return true, nil
}
