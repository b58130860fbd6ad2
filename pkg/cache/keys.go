package cache

import "fmt"

const describeIndexKey = "rex:describe:keys"

// DescribeKey is the cache key for the describe result of a service.
func DescribeKey(service string) string {
	return fmt.Sprintf("rex:describe:%s", service)
}
