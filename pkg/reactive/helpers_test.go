package reactive

// countingSubscriber returns a subscriber whose reaction bumps the
// returned counter. Tests run on one goroutine, so a plain int is fine.
func countingSubscriber() (*Subscriber, *int) {
	count := new(int)
	return NewSubscriber(func() { *count++ }), count
}
