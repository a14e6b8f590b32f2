package domain

type UserID = int64
type PetID = int64
