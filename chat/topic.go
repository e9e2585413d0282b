package chat

func RoomTopic(roomID string) string { return "room." + roomID }

func ReadStatusTopic(roomID string) string { return "room." + roomID + ".read-status" }

func UserMessagesTopic(userID string) string { return "user." + userID + ".messages" }

func UserRoomsTopic(userID string) string { return "user." + userID + ".rooms" }
