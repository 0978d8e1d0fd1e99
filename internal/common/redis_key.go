package common

const RedisKeySpreaders = "spreaders"
