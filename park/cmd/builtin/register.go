// Package builtin registers the built-in commands of a park node: queue and
// shop management, the show schedule, warps, outfits, signs, ride counts,
// currency, storage and the staff roster, plus general server commands.
package builtin

import "github.com/sparkparks/parkmanager/park/cmd"

// Register registers every built-in command against the node passed. It is
// called once at startup, before the node accepts players or console input.
func Register(srv parkAdapter) {
	for _, c := range []cmd.Command{
		newHelpCommand(),
		newListCommand(srv),
		newSayCommand(),
		newStopCommand(srv),
		newStaffCommand(srv),
		newQueueCommand(srv),
		newShopCommand(srv),
		newFoodCommand(srv),
		newShowCommand(srv),
		newWarpCommand(srv),
		newOutfitCommand(srv),
		newSignCommand(srv),
		newRidecountCommand(srv),
		newEcoCommand(srv),
		newStorageCommand(srv),
	} {
		cmd.Register(c)
	}
}
