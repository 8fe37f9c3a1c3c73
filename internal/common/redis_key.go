package common

func RedisKeyTopMedicines() string {
	return "topmedicines"
}
