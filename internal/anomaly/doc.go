// Package anomaly flags outlying company-periods with an unsupervised model.
//
// Detect builds a feature matrix from named ratios, hands the complete rows
// to a Detector and maps the predictions back onto the input. Rows missing
// any feature are reported as Unscored. The default Detector is an
// isolation forest seeded from configuration, so a run is reproducible.
package anomaly
