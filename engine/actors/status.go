package actors

import "sync"

var terminateChan chan struct{}
var terminateOnce = &sync.Once{}

func SetTerminateChan(term chan struct{}) {
	terminateChan = term
	terminateOnce = &sync.Once{}
}

func GetTerminateChan() chan struct{} {
	return terminateChan
}

// Terminate closes the terminate chan. Later calls do nothing.
func Terminate() {
	terminateOnce.Do(func() { close(terminateChan) })
}
