package web

// Setting identifies one of the hub settings that a client
// may change with a Control message.
type Setting = uint8

const (
	_ Setting = iota
	Compression
	CompressionLevel
	FramePatching
	FrameSkipping
	FramePatchRatio
	FrameCaching
)

// Request is the first byte of a message sent by a client.
type Request = uint8

const (
	// Key is followed by a display.Key and its state, 0 for
	// released and 1 for pressed.
	Key Request = iota + 1
	// PausePlay is followed by 0 to pause the game, or 1 to
	// resume it.
	PausePlay
	// Control is followed by a Setting and its new value.
	Control
	KeepAlive Request = 254
	Closing   Request = 255
)

// Type is the first byte of a message sent to a client.
type Type = uint8

const (
	// Frame is followed by the cache index (uint16) and a full frame.
	Frame Type = iota
	// FramePatch is followed by the cache index (uint16) and a
	// list of changed pixels.
	FramePatch
	// FrameSkip is followed by the number of unchanged frames
	// that were not sent (uint32, trailing zeros trimmed).
	FrameSkip
	// ClientInfo describes the hub settings.
	ClientInfo
	// PatchCache references a previously sent patch by index.
	PatchCache
	PatchCacheSync
	// FrameCache references a previously sent frame by index.
	FrameCache
	FrameCacheSync
	// FrameSync is the current frame, sent to a client when it
	// connects.
	FrameSync
	// ServerInfo is a list of client IDs, each followed by its
	// latency in milliseconds (uint16) and the seconds since it
	// connected (uint32).
	ServerInfo
	// Title is the window title, including the current FPS.
	Title
	// FrameTimes is the average and worst time taken to produce
	// a frame over the last few seconds, in microseconds (uint32).
	FrameTimes
)

const (
	infoRunning uint8 = 1 << iota
	infoCompression
	infoFramePatching
	infoFrameSkipping
	infoPaused
	infoFrameCaching
)
