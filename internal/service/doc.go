// Package service contains the application use cases of the trainer. It
// orchestrates the vocabulary store, the selector, the session engine, the
// generators and the cloud store on behalf of the API and the CLI.
//
// Each profile has its own vocabulary, session counter and session. All
// mutations of one profile are serialized through the profile's lock; the
// services never hold two profile locks at once.
package service
