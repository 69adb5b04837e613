package reward

import "time"

// RMax bounds the shaped reward scalar to [-RMax, RMax] (spec §4.5).
const RMax = 2.0

// DefaultDeliveryInterval is the default reward-delivery cadence for
// streaming scenarios; episodic scenarios instead push per step.
const DefaultDeliveryInterval = 60 * time.Second
