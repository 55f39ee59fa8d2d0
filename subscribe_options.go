package moqt

type subscribeOptions struct {
	priority      uint8
	groupOrder    GroupOrder
	locationType  LocationType
	start         Location
	end           Location
	authorization string
}

type SubscribeOption func(*subscribeOptions)

// WithPriority sets the subscriber priority, lower is more important.
func WithPriority(p uint8) SubscribeOption {
	return func(o *subscribeOptions) { o.priority = p }
}

// WithGroupOrder requests a delivery order for the track's groups.
func WithGroupOrder(g GroupOrder) SubscribeOption {
	return func(o *subscribeOptions) { o.groupOrder = g }
}

// WithLatestGroup subscribes from the start of the newest group.
func WithLatestGroup() SubscribeOption {
	return func(o *subscribeOptions) { o.locationType = LocationTypeLatestGroup }
}

// WithLatestObject subscribes from the newest object.
func WithLatestObject() SubscribeOption {
	return func(o *subscribeOptions) { o.locationType = LocationTypeLatestObject }
}

// WithStart subscribes from an absolute location onwards.
func WithStart(start Location) SubscribeOption {
	return func(o *subscribeOptions) {
		o.locationType = LocationTypeAbsoluteStart
		o.start = start
	}
}

// WithRange subscribes to an absolute range.
func WithRange(start, end Location) SubscribeOption {
	return func(o *subscribeOptions) {
		o.locationType = LocationTypeAbsoluteRange
		o.start = start
		o.end = end
	}
}

// WithAuthorization attaches an authorization token to the request.
func WithAuthorization(auth string) SubscribeOption {
	return func(o *subscribeOptions) { o.authorization = auth }
}
