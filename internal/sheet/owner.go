package sheet

// Owner is the external holder of the visibility intent. Both calls are fire
// and forget.
type Owner interface {
	// HandleVisible is called with false when a drag dismisses the sheet.
	HandleVisible(visible bool)
	// OnClose is called once per completed dismissal, dragged or requested.
	OnClose()
}

// OwnerFuncs adapts plain functions to Owner. Nil fields are no-ops.
type OwnerFuncs struct {
	Visible func(bool)
	Close   func()
}

func (o OwnerFuncs) HandleVisible(v bool) {
	if o.Visible != nil {
		o.Visible(v)
	}
}

func (o OwnerFuncs) OnClose() {
	if o.Close != nil {
		o.Close()
	}
}
