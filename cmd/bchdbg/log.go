// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bchsuite/bchvm/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.BDBG)
