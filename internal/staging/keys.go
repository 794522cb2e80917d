package staging

import "fmt"

func DatasetKey(sessionID string) string {
	return fmt.Sprintf("staging:dataset:%s", sessionID)
}
