//go:build noopencv

package metrics

// Every metric is computed through OpenCV; without it the evaluator is empty.
func registerDefaultMetrics(*Evaluator) {}
