// Package app drives pipescope. It loads pipeline definitions, analyzes them
// as one batch, reports the batch and, in watch mode, repeats the cycle on
// every change while serving health and metrics endpoints. It is decoupled
// from any specific entrypoint like a CLI.
package app
