// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing identifier.
// Flows, actions, and cursors each draw from their own counter.
type Serial = uint32

// flowCounter is the global monotonic counter for flow serials.
var flowCounter atomix.Uint32

// nextFlowSerial returns the next monotonically increasing flow serial.
func nextFlowSerial() Serial {
	return flowCounter.Add(1)
}

// actionCounter is the global monotonic counter for action sequence numbers.
// Enqueue order within a kind group is recovered from these.
var actionCounter atomix.Uint32

// nextActionSeq returns the next monotonically increasing action sequence.
func nextActionSeq() Serial {
	return actionCounter.Add(1)
}
