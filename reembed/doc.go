// Package reembed implements the batch embedding maintenance job.
// It fills in missing item embeddings, or regenerates all of them after
// an embedding model change.
package reembed
