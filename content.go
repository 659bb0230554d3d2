package webvfx

import "net/url"

// ImageType describes the role of a named image declared by effect
// content.
type ImageType int

const (
	// SourceImageType is the main video source frame.
	SourceImageType ImageType = 1 + iota

	// TargetImageType is the secondary target frame (e.g. for
	// transitions).
	TargetImageType

	// ExtraImageType is any additional image the content consumes.
	ExtraImageType
)

// String returns the lowercase name of the image type.
func (t ImageType) String() string {
	switch t {
	case SourceImageType:
		return "source"
	case TargetImageType:
		return "target"
	case ExtraImageType:
		return "extra"
	default:
		return "unknown"
	}
}

// LoadMilestone identifies how far a content load must have progressed
// before it is considered complete.
type LoadMilestone int

const (
	// PreLoadFinished fires as soon as the content document is
	// available, before full processing. Selected by the "plain:"
	// locator prefix.
	PreLoadFinished LoadMilestone = iota

	// LoadFinished fires once the content is fully loaded and ready to
	// render.
	LoadFinished
)

// Dispatcher posts work onto the owner thread. Content backends use it
// to deliver load milestones on the owner thread regardless of where the
// underlying I/O completed. mainthread.Loop satisfies this interface.
type Dispatcher interface {
	// Post enqueues f for deferred FIFO execution on the owner thread.
	Post(f func())

	// IsOwner reports whether the current goroutine is the owner thread.
	IsOwner() bool
}

// Content is a loaded effect document. Exactly one Content instance is
// live per Effects instance at a time, created during Initialize by the
// backend selected from the locator's extension.
//
// All methods except SetImage and ImageTypeMap must be called on the
// owner thread; Effects guarantees that by marshaling. SetImage and
// ImageTypeMap only touch per-key storage and may be called from any
// thread, provided calls against the same Effects instance are
// externally serialized.
type Content interface {
	// Subscribe registers fn to be invoked on the owner thread when the
	// given load milestone is reached, with the milestone's success
	// payload. Subscribe must be called before Load.
	Subscribe(milestone LoadMilestone, fn func(ok bool))

	// Load starts loading the document asynchronously. Completion is
	// reported through subscribed milestones; Load itself returns
	// without waiting.
	Load(u *url.URL)

	// SetSize resizes the content's render target.
	SetSize(width, height int)

	// Render paints the content at the given time (normalized 0..1 by
	// convention) into target and reports success.
	Render(time float64, target *Image) bool

	// Reload discards and reloads the current document, re-firing load
	// milestones.
	Reload()

	// SetImage registers a named input image for the content to
	// composite.
	SetImage(name string, image *Image)

	// ImageTypeMap returns the role of each named image the content
	// declares.
	ImageTypeMap() map[string]ImageType

	// Close releases the content's resources. The content must not be
	// used afterwards.
	Close()
}

// ContentOptions carries construction parameters from the bridge to a
// content backend factory.
type ContentOptions struct {
	// Width and Height are the initial content dimensions.
	Width  int
	Height int

	// Parameters supplies named values from the embedding application.
	// May be nil.
	Parameters Parameters

	// Transparent requests a transparent background instead of an
	// opaque one.
	Transparent bool

	// Dispatcher posts milestone callbacks onto the owner thread.
	Dispatcher Dispatcher
}

// ContentFactory creates a backend's Content instance. Factories run on
// the owner thread.
type ContentFactory func(opts ContentOptions) Content
