// Package service provides the session store of the smsauth client.
//
// Store owns the authentication state. Every change goes through
// domain.Reduce; Store adds the IO around it: backend calls, the persisted
// token, the request credential and user notifications.
//
// Operations do not hold the Store lock across their network call. Two
// overlapping operations both run and the transition that completes last
// determines the state.
package service
