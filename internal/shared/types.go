package shared

// Asynq task types
const (
	TypeManifestAnalyze = "manifest:analyze"
	TypeManifestCleanup = "manifest:cleanup"
	TypeManifestRequeue = "manifest:requeue_stuck"
)

// Queue names, highest priority first
const (
	QueueManifests   = "manifests"
	QueueDefault     = "default"
	QueueMaintenance = "maintenance"
)

// ManifestAnalyzePayload is the payload of a manifest:analyze task
type ManifestAnalyzePayload struct {
	ManifestID string `json:"manifestId"`
	UserID     string `json:"userId"`
}

// ManifestCleanupPayload is the payload of a manifest:cleanup task
type ManifestCleanupPayload struct {
	RetentionDays int `json:"retentionDays"`
}

// ManifestRequeuePayload is the payload of a manifest:requeue_stuck task
type ManifestRequeuePayload struct {
	StuckAfterMinutes int `json:"stuckAfterMinutes"`
}

