package cache

// deletes every key recorded in the index set, then the set itself.
const invalidateIndexScript = `
	local cache_keys = redis.call('SMEMBERS', KEYS[1])
	if #cache_keys > 0 then
		redis.call('DEL', unpack(cache_keys))
	end
	redis.call('DEL', KEYS[1])
	return #cache_keys
`
