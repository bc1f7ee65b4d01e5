package ibl

import "pbr-ibl/log"

var logger = log.New("ibl")
