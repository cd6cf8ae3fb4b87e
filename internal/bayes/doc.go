// Package bayes implements the multinomial naive Bayes classifier that labels
// URLs as malicious or benign.
//
// Training fits a feature.Vocabulary over the corpus URLs, fuses the TF-IDF
// token weights with the content features and estimates Laplace-smoothed log
// likelihoods per class. The resulting Model and Vocabulary are immutable and
// may be shared by any number of concurrent Predict calls.
//
// Example:
//
//	m, vocab, err := bayes.Train(records, content)
//	if err != nil {
//	    return err
//	}
//	labels, err := bayes.Predict(m, vocab, queries, queryContent)
package bayes
