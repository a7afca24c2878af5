package vm

// network.go implements the two fixed-capacity packet queues (TX, RX) and
// the connection flag (§3, §4.7). These are single-producer/single-consumer
// from the core's point of view (§5): the guest enqueues/dequeues via
// syscalls, and an external agent may drain TX / fill RX.

import "fmt"

const (
	// NetQueueCapacity is the number of packets each queue can hold.
	NetQueueCapacity = 64

	// MaxPacketSize is the largest packet the queues accept.
	MaxPacketSize = 1500
)

// Network holds the TX/RX packet queues and the connection flag.
type Network struct {
	tx, rx    [][]byte
	connected bool
}

// NewNetwork creates an empty, disconnected network device.
func NewNetwork() *Network {
	return &Network{}
}

// Send enqueues a packet for transmission. It fails if the TX queue is
// full, per §4.7.
func (n *Network) Send(data []byte) error {
	if len(n.tx) >= NetQueueCapacity {
		return fmt.Errorf("%w: tx queue full", ErrBadResource)
	}

	if len(data) > MaxPacketSize {
		data = data[:MaxPacketSize]
	}

	pkt := make([]byte, len(data))
	copy(pkt, data)
	n.tx = append(n.tx, pkt)

	return nil
}

// DequeueTX removes and returns the oldest queued transmit packet, for an
// external agent draining the queue. It returns ok=false if empty.
func (n *Network) DequeueTX() (pkt []byte, ok bool) {
	if len(n.tx) == 0 {
		return nil, false
	}

	pkt, n.tx = n.tx[0], n.tx[1:]

	return pkt, true
}

// Deliver enqueues an inbound packet for the guest to receive, for an
// external agent feeding the queue. It silently drops the packet if the RX
// queue is full.
func (n *Network) Deliver(data []byte) {
	if len(n.rx) >= NetQueueCapacity {
		return
	}

	if len(data) > MaxPacketSize {
		data = data[:MaxPacketSize]
	}

	pkt := make([]byte, len(data))
	copy(pkt, data)
	n.rx = append(n.rx, pkt)
}

// Recv dequeues the oldest received packet, or returns ok=false if the RX
// queue is empty (§4.7, §5: never blocks).
func (n *Network) Recv() (pkt []byte, ok bool) {
	if len(n.rx) == 0 {
		return nil, false
	}

	pkt, n.rx = n.rx[0], n.rx[1:]

	return pkt, true
}

// Connect marks the device connected.
func (n *Network) Connect() { n.connected = true }

// Listen marks the device connected, mirroring Connect: from the core's
// point of view, listening and connecting both simply mean "ready" (§4.4).
func (n *Network) Listen() { n.connected = true }

// Connected reports the connection flag.
func (n *Network) Connected() bool { return n.connected }

// Reset empties both queues and clears the connection flag.
func (n *Network) Reset() {
	n.tx = nil
	n.rx = nil
	n.connected = false
}

func (n *Network) String() string {
	return fmt.Sprintf("Network(tx:%d,rx:%d,connected:%t)", len(n.tx), len(n.rx), n.connected)
}
