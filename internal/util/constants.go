package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	// Header carrying the respondent's invite token, mirrored upstream.
	HeaderInviteToken = "x-invite-token"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Progress persistence slots, keyed by session token T: idx_{T} holds the
// cursor as a decimal string, ans_{T} the answer map as JSON.
const (
	ProgressIndexPrefix   = "idx_"
	ProgressAnswersPrefix = "ans_"
)
