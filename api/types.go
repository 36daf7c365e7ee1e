package api

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/MajedBannouri/Taski/apperrors"
	"github.com/MajedBannouri/Taski/models"
)

type userResolver struct {
	user models.User
}

func (u *userResolver) ID() graphql.ID {
	return graphql.ID(u.user.ID.Hex())
}

func (u *userResolver) Name() string {
	return u.user.Name
}

func (u *userResolver) Email() string {
	return u.user.Email
}

func (u *userResolver) Avatar() *string {
	if u.user.Avatar == "" {
		return nil
	}
	return &u.user.Avatar
}

type authUserResolver struct {
	user  *userResolver
	token string
}

func (a *authUserResolver) User() *userResolver {
	return a.user
}

func (a *authUserResolver) Token() string {
	return a.token
}

type taskListResolver struct {
	r    *Resolver
	list models.TaskList
}

func (l *taskListResolver) ID() graphql.ID {
	return graphql.ID(l.list.ID.Hex())
}

func (l *taskListResolver) CreatedAt() string {
	return l.list.CreatedAt.UTC().Format(time.RFC3339)
}

func (l *taskListResolver) Title() string {
	return l.list.Title
}

// Progress is the fraction of completed todos; 0 for an empty list.
func (l *taskListResolver) Progress(ctx context.Context) (float64, error) {
	todos, err := l.r.Store.ToDosByTaskList(ctx, l.list.ID.Hex())
	if err != nil {
		return 0, err
	}
	if len(todos) == 0 {
		return 0, nil
	}
	completed := 0
	for _, t := range todos {
		if t.IsCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(todos)), nil
}

// Users resolves member ids to full records in stored order. Ids that no
// longer resolve are omitted; a member deleted concurrently is not an error.
func (l *taskListResolver) Users(ctx context.Context) ([]*userResolver, error) {
	out := make([]*userResolver, 0, len(l.list.UserIDs))
	for _, uid := range l.list.UserIDs {
		user, err := l.r.Store.UserByID(ctx, uid.Hex())
		if err != nil {
			if apperrors.IsCode(err, apperrors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, &userResolver{user})
	}
	return out, nil
}

func (l *taskListResolver) Todos(ctx context.Context) ([]*todoResolver, error) {
	todos, err := l.r.Store.ToDosByTaskList(ctx, l.list.ID.Hex())
	if err != nil {
		return nil, err
	}
	out := make([]*todoResolver, 0, len(todos))
	for _, t := range todos {
		out = append(out, &todoResolver{r: l.r, todo: t})
	}
	return out, nil
}

type todoResolver struct {
	r    *Resolver
	todo models.ToDo
}

func (t *todoResolver) ID() graphql.ID {
	return graphql.ID(t.todo.ID.Hex())
}

func (t *todoResolver) Content() string {
	return t.todo.Content
}

func (t *todoResolver) IsCompleted() bool {
	return t.todo.IsCompleted
}

func (t *todoResolver) TaskList(ctx context.Context) (*taskListResolver, error) {
	list, err := t.r.Store.TaskListByID(ctx, t.todo.TaskListID.Hex())
	if err != nil {
		return nil, err
	}
	return &taskListResolver{r: t.r, list: list}, nil
}
