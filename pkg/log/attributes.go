// Standard attribute keys for pipeline log lines. Keys follow a dotted
// naming convention ("ml.operation", "data.samples") so log files can be
// filtered consistently across stages.

package log

// Operation context
const (
	// ModelNameKey identifies the estimator, e.g. "StandardScaler".
	ModelNameKey = "model.name"

	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package or stage emitting the line.
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	PhaseKey = "ml.phase"

	// RunIDKey identifies a single pipeline run.
	RunIDKey = "run.id"
)

// Data shape
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	OutputsKey  = "data.outputs"
	ColumnsKey  = "data.columns"
	PathKey     = "data.path"
)

// Performance
const (
	DurationMsKey = "perf.duration_ms"
)

// Error context
const (
	ErrorKey = "error"
	StageKey = "error.stage"
)

// Operation values
const (
	OperationFit       = "fit"
	OperationTransform = "transform"
	OperationIngest    = "ingest"
	OperationSplit     = "split"
	OperationSave      = "save"
)

// Phase values
const (
	PhaseIngestion      = "ingestion"
	PhasePreprocessing  = "preprocessing"
	PhaseTransformation = "transformation"
)
