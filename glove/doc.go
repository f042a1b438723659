// Package glove loads a static, pretrained word-embedding table in the
// GloVe text format and averages word vectors into sentence vectors.
//
// The file format is one word per line followed by its components, separated
// by spaces:
//
//	the 0.418 0.24968 -0.41242 ...
//	disk 0.1071 -0.33 0.912 ...
//
// Every line must carry the same number of components. Lines that cannot be
// parsed are skipped and counted; a load only fails when the source cannot be
// read at all or yields no usable entries.
//
// A loaded Table is read-only and safe for concurrent use.
package glove
