package async

// Handler is notified once when a submitted call returns.
type Handler[Req, Res any] interface {
	OnSuccess(req Req, res Res)
	OnError(err error)
}

// HandlerFuncs adapts a pair of functions to Handler. Nil functions are skipped.
type HandlerFuncs[Req, Res any] struct {
	Success func(req Req, res Res)
	Error   func(err error)
}

// OnSuccess implements Handler.
func (h HandlerFuncs[Req, Res]) OnSuccess(req Req, res Res) {
	if h.Success != nil {
		h.Success(req, res)
	}
}

// OnError implements Handler.
func (h HandlerFuncs[Req, Res]) OnError(err error) {
	if h.Error != nil {
		h.Error(err)
	}
}
