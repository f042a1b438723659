// Package retrain rebuilds the incremental embedding model from the stored
// corpus and keeps it caught up with phrases added since the last build.
//
// The corpus is read in batches in insertion order. A checkpoint records the
// last phrase the model has learned, so a restarted process only trains on
// what is new.
package retrain
