package preprocessing

import "encoding/gob"

// Matrix transformers travel inside pipelines as interface values, so gob
// needs their concrete types up front.
func init() {
	gob.Register(&StandardScaler{})
	gob.Register(&MinMaxScaler{})
	gob.Register(&SimpleImputer{})
}
