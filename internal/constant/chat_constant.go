package constant

import "time"

const (
	// Placeholder content shown while a reply is in flight.
	PendingReplyContent = "답변을 준비 중입니다..."

	// ReplyErrorContent is the fixed error surrogate that replaces a
	// placeholder when the query dispatch fails. Tests and users rely on
	// this exact text being distinct from real assistant content.
	ReplyErrorContent = "죄송합니다. 응답을 생성하는 중 오류가 발생했습니다."

	// EmptyReplyContent is used when the query service answers 2xx with an
	// empty body.
	EmptyReplyContent = "죄송합니다. 응답을 생성할 수 없습니다."

	UploadFailedContentPrefix = "Error uploading file: "

	DefaultSharing = "private"

	NewsSessionName         = "뉴스 질문"
	NewsSessionDescription  = "뉴스 질문 채팅"
	RetrievalSessionName    = "RAG 채팅"
	RetrievalSessionDesc    = "RAG 채팅"
	PlainSessionDescription = "채팅"
	UnnamedSessionName      = "Unnamed session"

	HomeWorkspaceName = "개인 워크스페이스"

	// Display-name truncation limits.
	SessionNameMaxLen   = 100
	SessionNameShortLen = 30
)

// HistoryRefreshTopic is the in-process bus topic for history cache refreshes.
const HistoryRefreshTopic = "history.refresh"

const (
	// SessionResolveAttempts bounds the retry on loading a session by id.
	// The document store can lag reads right after a create elsewhere.
	SessionResolveAttempts = 3
	SessionResolveDelay    = 1 * time.Second

	// ReadinessTimeout is the forced-proceed escape hatch for workspace
	// view initialization.
	ReadinessTimeout = 5 * time.Second

	// HistoryFetchTimeout caps how long a caller waits for a session's
	// history before proceeding with an empty view.
	HistoryFetchTimeout = 10 * time.Second

	// WorkspaceFetchTimeout caps the parallel workspace load wait.
	WorkspaceFetchTimeout = 15 * time.Second

	// QueryDispatchTimeout caps one query-service round trip.
	QueryDispatchTimeout = 60 * time.Second
)
