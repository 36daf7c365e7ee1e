package api

// Schema is the public GraphQL surface. Field names and nullability are part
// of the client contract and must not change.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Query {
		myTaskLists: [TaskList!]!
		getTaskList(id: ID!): TaskList!
	}

	type Mutation {
		signUp(input: SignUpInput!): AuthUser!
		signIn(input: SignInInput!): AuthUser!

		createTaskList(title: String!): TaskList!
		updateTaskList(id: ID!, title: String!): TaskList!
		deleteTaskList(id: ID!): Boolean!
		addUserToTaskList(taskListId: ID!, userId: ID!): TaskList!

		createToDo(content: String!, taskListId: ID!): ToDo!
		updateToDo(id: ID!, content: String, isCompleted: Boolean): ToDo!
		deleteToDo(id: ID!): Boolean!
	}

	input SignUpInput {
		email: String!
		password: String!
		name: String!
		avatar: String
	}

	input SignInInput {
		email: String!
		password: String!
	}

	type AuthUser {
		user: User!
		token: String!
	}

	type User {
		id: ID!
		name: String!
		email: String!
		avatar: String
	}

	type TaskList {
		id: ID!
		createdAt: String!
		title: String!
		progress: Float!
		users: [User!]!
		todos: [ToDo!]!
	}

	type ToDo {
		id: ID!
		content: String!
		isCompleted: Boolean!
		taskList: TaskList!
	}
`
