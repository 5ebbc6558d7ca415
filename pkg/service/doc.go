// Package service is the use case shared by every front end: convert one raw
// input, record it in the history, and produce the sentence shown to the user.
package service
