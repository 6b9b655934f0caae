package graph

// Schema is the wire contract. Field names, argument names, and nullability
// are load-bearing: clients depend on them bit-exactly. The nested address
// projection and the flat street/city fields are both exposed; address is
// derived at resolution time and never stored.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Address {
		street: String!
		city: String!
	}

	type Person {
		name: String!
		phone: String
		street: String!
		city: String!
		address: Address!
		id: ID!
	}

	type User {
		username: String!
		friends: [Person!]!
		id: ID!
	}

	type Token {
		value: String!
	}

	enum PhoneFilter {
		HAS
		NONE
	}

	type Query {
		personCount: Int!
		allPersons(phoneFilter: PhoneFilter): [Person!]!
		findPerson(name: String!): Person
		me: User
	}

	type Mutation {
		addPerson(name: String!, phone: String, street: String!, city: String!): Person
		editNumber(name: String!, phone: String!): Person
		createUser(username: String!, password: String!): User
		login(username: String!, password: String!): Token
		addAsFriend(name: String!): User
	}
`
