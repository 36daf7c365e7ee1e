package api

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MajedBannouri/Taski/apperrors"
	"github.com/MajedBannouri/Taski/models"
)

// memStore is an in-memory Store used by the resolver tests. It mirrors the
// Mongo façade's observable semantics: string-id boundary with MALFORMED_ID,
// NOT_FOUND for absent documents, unique emails, idempotent member adds and
// createdAt-ascending list order. mutations counts every write so tests can
// assert that rejected operations touched nothing.
type memStore struct {
	users     map[string]models.User
	lists     map[string]models.TaskList
	todos     map[string]models.ToDo
	mutations int
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]models.User{},
		lists: map[string]models.TaskList{},
		todos: map[string]models.ToDo{},
	}
}

func parseMemID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Wrap(apperrors.CodeMalformedID, "malformed id", err)
	}
	return oid, nil
}

func (m *memStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return models.User{}, apperrors.New(apperrors.CodeDuplicateEmail, "email already registered")
		}
	}
	m.mutations++
	u.ID = primitive.NewObjectID()
	m.users[u.ID.Hex()] = u
	return u, nil
}

func (m *memStore) UserByID(_ context.Context, id string) (models.User, error) {
	if _, err := parseMemID(id); err != nil {
		return models.User{}, err
	}
	u, ok := m.users[id]
	if !ok {
		return models.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	return u, nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
}

func (m *memStore) CreateTaskList(_ context.Context, l models.TaskList) (models.TaskList, error) {
	m.mutations++
	l.ID = primitive.NewObjectID()
	m.lists[l.ID.Hex()] = l
	return l, nil
}

func (m *memStore) TaskListByID(_ context.Context, id string) (models.TaskList, error) {
	if _, err := parseMemID(id); err != nil {
		return models.TaskList{}, err
	}
	l, ok := m.lists[id]
	if !ok {
		return models.TaskList{}, apperrors.New(apperrors.CodeNotFound, "task list not found")
	}
	return l, nil
}

func (m *memStore) TaskListsByMember(_ context.Context, userID string) ([]models.TaskList, error) {
	uid, err := parseMemID(userID)
	if err != nil {
		return nil, err
	}
	lists := []models.TaskList{}
	for _, l := range m.lists {
		if l.HasMember(uid) {
			lists = append(lists, l)
		}
	}
	sort.Slice(lists, func(i, j int) bool {
		return lists[i].CreatedAt.Before(lists[j].CreatedAt)
	})
	return lists, nil
}

func (m *memStore) RenameTaskList(ctx context.Context, id, title string) (models.TaskList, error) {
	l, err := m.TaskListByID(ctx, id)
	if err != nil {
		return models.TaskList{}, err
	}
	m.mutations++
	l.Title = title
	m.lists[id] = l
	return l, nil
}

func (m *memStore) DeleteTaskList(_ context.Context, id string) (bool, error) {
	if _, err := parseMemID(id); err != nil {
		return false, err
	}
	if _, ok := m.lists[id]; !ok {
		return false, nil
	}
	m.mutations++
	delete(m.lists, id)
	return true, nil
}

func (m *memStore) AddTaskListMember(ctx context.Context, listID, userID string) (models.TaskList, error) {
	uid, err := parseMemID(userID)
	if err != nil {
		return models.TaskList{}, err
	}
	l, err := m.TaskListByID(ctx, listID)
	if err != nil {
		return models.TaskList{}, err
	}
	m.mutations++
	if !l.HasMember(uid) {
		l.UserIDs = append(l.UserIDs, uid)
		m.lists[listID] = l
	}
	return l, nil
}

func (m *memStore) CreateToDo(_ context.Context, t models.ToDo) (models.ToDo, error) {
	m.mutations++
	t.ID = primitive.NewObjectID()
	m.todos[t.ID.Hex()] = t
	return t, nil
}

func (m *memStore) ToDoByID(_ context.Context, id string) (models.ToDo, error) {
	if _, err := parseMemID(id); err != nil {
		return models.ToDo{}, err
	}
	t, ok := m.todos[id]
	if !ok {
		return models.ToDo{}, apperrors.New(apperrors.CodeNotFound, "todo not found")
	}
	return t, nil
}

func (m *memStore) ToDosByTaskList(_ context.Context, listID string) ([]models.ToDo, error) {
	oid, err := parseMemID(listID)
	if err != nil {
		return nil, err
	}
	todos := []models.ToDo{}
	for _, t := range m.todos {
		if t.TaskListID == oid {
			todos = append(todos, t)
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].ID.Hex() < todos[j].ID.Hex()
	})
	return todos, nil
}

func (m *memStore) UpdateToDo(ctx context.Context, id string, content *string, isCompleted *bool) (models.ToDo, error) {
	t, err := m.ToDoByID(ctx, id)
	if err != nil {
		return models.ToDo{}, err
	}
	m.mutations++
	if content != nil {
		t.Content = *content
	}
	if isCompleted != nil {
		t.IsCompleted = *isCompleted
	}
	m.todos[id] = t
	return t, nil
}

func (m *memStore) DeleteToDo(_ context.Context, id string) (bool, error) {
	if _, err := parseMemID(id); err != nil {
		return false, err
	}
	if _, ok := m.todos[id]; !ok {
		return false, nil
	}
	m.mutations++
	delete(m.todos, id)
	return true, nil
}

func (m *memStore) DeleteToDosByTaskList(_ context.Context, listID string) (int64, error) {
	oid, err := parseMemID(listID)
	if err != nil {
		return 0, err
	}
	var n int64
	for id, t := range m.todos {
		if t.TaskListID == oid {
			m.mutations++
			delete(m.todos, id)
			n++
		}
	}
	return n, nil
}
