// Package common contains ambient helpers shared by the library packages and the
// command line interface.
//
// Logging goes through the logger package of dragonboat
// (github.com/lni/dragonboat/v4/logger). Library packages fetch their logger
// once with logger.GetLogger("<name>"); InitLoggers installs a factory that
// formats lines as
//
//	2025/01/01 12:00:00 DEBUG | rod        | rooms: last handle released, evicted key 0
//
// and sets the level of every logger of this module.
package common
