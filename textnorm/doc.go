// Package textnorm turns free text into the lowercase word tokens every
// similarity strategy consumes.
//
// Normalization folds Unicode compatibility forms (NFKC), deletes every rune
// that is neither a word character nor whitespace, lowercases what is left and
// splits on whitespace runs. Punctuation is deleted rather than replaced, so
// "disk-full" becomes the single token "diskfull".
package textnorm
